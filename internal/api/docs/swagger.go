package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// SessionData represents the exam session in responses
type SessionData struct {
	State     string `json:"state" example:"running"`
	StartedAt string `json:"started_at,omitempty" example:"2024-01-01T09:00:00Z"`
	StoppedAt string `json:"stopped_at,omitempty" example:"2024-01-01T11:00:00Z"`
}

// SessionResponse wraps a session transition result
type SessionResponse struct {
	Status  string      `json:"status" example:"started"`
	Session SessionData `json:"session"`
}

// SubmitEventRequest is a detector event submission
type SubmitEventRequest struct {
	Kind   string  `json:"kind" example:"face_missing"`
	Weight float64 `json:"weight" example:"2"`
}

// SubmitEventResponse reports the submission outcome
type SubmitEventResponse struct {
	Result string  `json:"result" example:"accepted"`
	Score  float64 `json:"score" example:"12.5"`
}

// ScoreResponse is the current suspicion score
type ScoreResponse struct {
	Score float64 `json:"score" example:"12.5"`
}

// AlertData represents one alert
type AlertData struct {
	ID           int64  `json:"id" example:"7"`
	Message      string `json:"message" example:"Multiple faces detected"`
	Severity     string `json:"severity" example:"critical"`
	SourceKind   string `json:"source_kind" example:"multiple_faces"`
	CreatedAt    string `json:"created_at" example:"2024-01-01T09:15:00Z"`
	Escalated    bool   `json:"escalated" example:"false"`
	Acknowledged bool   `json:"acknowledged" example:"false"`
}

// LatestAlertResponse carries the latest alert, null when none is active
type LatestAlertResponse struct {
	Alert *AlertData `json:"alert"`
}

// StatisticsResponse aggregates alert counts by severity
type StatisticsResponse struct {
	Total      int            `json:"total" example:"12"`
	BySeverity map[string]int `json:"by_severity"`
}

// RecentAlertsResponse lists alerts newest first
type RecentAlertsResponse struct {
	Alerts []AlertData `json:"alerts"`
}

// EscalationResponse reports escalation status for one kind
type EscalationResponse struct {
	Kind      string `json:"kind" example:"tab_switch"`
	Escalated bool   `json:"escalated" example:"false"`
}

// CalibrationStatusResponse is the wizard progress snapshot
type CalibrationStatusResponse struct {
	Started     bool    `json:"started" example:"true"`
	Completed   bool    `json:"completed" example:"false"`
	CurrentStep string  `json:"current_step" example:"lighting"`
	StepIndex   int     `json:"step_index" example:"1"`
	TotalSteps  int     `json:"total_steps" example:"5"`
	Progress    float64 `json:"progress" example:"40"`
}

// CalibrationTestResponse is one self-check result
type CalibrationTestResponse struct {
	Step            string   `json:"step" example:"lighting"`
	Status          string   `json:"status" example:"ok"`
	Passed          bool     `json:"passed" example:"true"`
	Message         string   `json:"message,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
}

// RecordingStatusResponse is the evidence collection state
type RecordingStatusResponse struct {
	Recording   bool `json:"recording" example:"true"`
	Screenshots int  `json:"screenshots_taken" example:"4"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"NOT_RUNNING"`
	Message string `json:"message" example:"Exam session is not running"`
}

func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Invigil Proctoring API",
		Version:     "v0.1.0",
		Description: "Signal-fusion and alert-escalation engine for live exam proctoring",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		endpoint.New(
			endpoint.POST,
			"/session/start",
			endpoint.WithTags("Session"),
			endpoint.WithSummary("Start the exam session"),
			endpoint.WithDescription("Acquires camera and microphone, resets the suspicion score and violation windows, and transitions the session to running"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "200", "Session started"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ALREADY_RUNNING"}, "409", "Session already running"),
				response.New(ErrorResponse{Code: "CAPTURE_UNAVAILABLE"}, "503", "Camera or microphone unavailable"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/session/stop",
			endpoint.WithTags("Session"),
			endpoint.WithSummary("Stop the exam session"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionResponse{}, "200", "Session stopped"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "NOT_RUNNING"}, "409", "Session not running"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/session",
			endpoint.WithTags("Session"),
			endpoint.WithSummary("Get the exam session state"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SessionData{}, "200", "Current session"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/events",
			endpoint.WithTags("Events"),
			endpoint.WithSummary("Submit a detection event"),
			endpoint.WithDescription("Ingests one classified detector observation; the engine accepts, suppresses (cooldown) or rejects (session not running) it"),
			endpoint.WithConsume([]mime.MIME{mime.JSON}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(SubmitEventResponse{}, "200", "Submission processed"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNKNOWN_EVENT_KIND"}, "422", "Unknown event kind"),
				response.New(ErrorResponse{Code: "INVALID_WEIGHT"}, "422", "Invalid weight"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/score",
			endpoint.WithTags("Score"),
			endpoint.WithSummary("Get the current suspicion score"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ScoreResponse{}, "200", "Current score"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/alerts/latest",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Get the latest alert"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(LatestAlertResponse{}, "200", "Latest alert, null when none"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/alerts/statistics",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Get alert statistics"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatisticsResponse{}, "200", "Aggregate alert counts"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/alerts/recent",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("List recent alerts"),
			endpoint.WithParams(
				parameter.IntParam("count", parameter.Query, parameter.WithDescription("Maximum number of alerts (default 10)")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecentAlertsResponse{}, "200", "Recent alerts, newest first"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/alerts/escalation/{kind}",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Check escalation status for an event kind"),
			endpoint.WithParams(
				parameter.StrParam("kind", parameter.Path, parameter.WithDescription("Detection event kind")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EscalationResponse{}, "200", "Escalation status"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/alerts/{id}/ack",
			endpoint.WithTags("Alerts"),
			endpoint.WithSummary("Acknowledge an alert"),
			endpoint.WithParams(
				parameter.IntParam("id", parameter.Path, parameter.WithDescription("Alert id")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(struct {
					Acknowledged bool  `json:"acknowledged" example:"true"`
					ID           int64 `json:"id" example:"7"`
				}{}, "200", "Alert acknowledged"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "ALERT_NOT_FOUND"}, "404", "No such alert"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/calibration/start",
			endpoint.WithTags("Calibration"),
			endpoint.WithSummary("Start the calibration wizard"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CalibrationStatusResponse{}, "200", "Wizard started"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/calibration/status",
			endpoint.WithTags("Calibration"),
			endpoint.WithSummary("Get calibration progress"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CalibrationStatusResponse{}, "200", "Wizard progress"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/calibration/test/{step}",
			endpoint.WithTags("Calibration"),
			endpoint.WithSummary("Run a calibration self-test"),
			endpoint.WithParams(
				parameter.StrParam("step", parameter.Path, parameter.WithDescription("Calibration step id")),
			),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CalibrationTestResponse{}, "200", "Test result"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "UNKNOWN_CALIBRATION_STEP"}, "422", "Unknown step"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/calibration/next",
			endpoint.WithTags("Calibration"),
			endpoint.WithSummary("Advance the calibration wizard"),
			endpoint.WithDescription("Idempotent past the last step: keeps returning the completed status"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(CalibrationStatusResponse{}, "200", "Wizard progress"),
			}),
		),
		endpoint.New(
			endpoint.POST,
			"/recording/toggle",
			endpoint.WithTags("Recording"),
			endpoint.WithSummary("Toggle screen recording"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecordingStatusResponse{}, "200", "New recording state"),
			}),
		),
		endpoint.New(
			endpoint.GET,
			"/recording/status",
			endpoint.WithTags("Recording"),
			endpoint.WithSummary("Get screen recording status"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(RecordingStatusResponse{}, "200", "Recording status"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)
	return sw
}
