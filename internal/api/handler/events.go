package handler

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/proctorly/invigil/internal/domain"
)

// MonitorService is the slice of the engine the event and alert endpoints
// need.
type MonitorService interface {
	Submit(ctx context.Context, ev domain.DetectionEvent) (domain.SubmitResult, error)
	Score() float64
	LatestAlert() (domain.Alert, bool)
	Statistics() domain.AlertStatistics
	RecentAlerts(n int) []domain.Alert
	AcknowledgeAlert(id int64) error
	EscalationStatus(kind domain.EventKind) (bool, error)
}

// EventsHandler ingests detector submissions and serves dashboard reads.
type EventsHandler struct {
	service MonitorService
	logger  *slog.Logger
}

func NewEventsHandler(service MonitorService, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		service: service,
		logger:  logger,
	}
}

// SubmitEventRequest is a detector submission. Weight 0 means "use the
// kind's configured weight"; OccurredAt defaults to the ingestion time.
type SubmitEventRequest struct {
	Kind       domain.EventKind `json:"kind"`
	Weight     float64          `json:"weight"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// SubmitEventResponse reports what the engine did with the event.
type SubmitEventResponse struct {
	Result domain.SubmitResult `json:"result"`
	Score  float64             `json:"score"`
}

// Submit POST /v1/events
func (h *EventsHandler) Submit(c *fiber.Ctx) error {
	var req SubmitEventRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	result, err := h.service.Submit(c.Context(), domain.DetectionEvent{
		Kind:       req.Kind,
		Weight:     req.Weight,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		return err
	}

	return c.JSON(SubmitEventResponse{
		Result: result,
		Score:  h.service.Score(),
	})
}

// ScoreResponse is the poll-friendly suspicion score payload.
type ScoreResponse struct {
	Score float64 `json:"score"`
}

// Score GET /v1/score
func (h *EventsHandler) Score(c *fiber.Ctx) error {
	return c.JSON(ScoreResponse{Score: h.service.Score()})
}

// LatestAlertResponse carries the latest alert; a null alert means "no
// active alert".
type LatestAlertResponse struct {
	Alert *domain.Alert `json:"alert"`
}

// LatestAlert GET /v1/alerts/latest
func (h *EventsHandler) LatestAlert(c *fiber.Ctx) error {
	alert, ok := h.service.LatestAlert()
	if !ok {
		return c.JSON(LatestAlertResponse{})
	}
	return c.JSON(LatestAlertResponse{Alert: &alert})
}

// Statistics GET /v1/alerts/statistics
func (h *EventsHandler) Statistics(c *fiber.Ctx) error {
	return c.JSON(h.service.Statistics())
}

// RecentAlertsResponse lists alerts newest first.
type RecentAlertsResponse struct {
	Alerts []domain.Alert `json:"alerts"`
}

// Recent GET /v1/alerts/recent?count=n
func (h *EventsHandler) Recent(c *fiber.Ctx) error {
	count := c.QueryInt("count", 10)
	alerts := h.service.RecentAlerts(count)
	if alerts == nil {
		alerts = []domain.Alert{}
	}
	return c.JSON(RecentAlertsResponse{Alerts: alerts})
}

// EscalationResponse reports whether a kind crossed the escalation
// threshold in its current window.
type EscalationResponse struct {
	Kind      domain.EventKind `json:"kind"`
	Escalated bool             `json:"escalated"`
}

// Escalation GET /v1/alerts/escalation/:kind
func (h *EventsHandler) Escalation(c *fiber.Ctx) error {
	kind := domain.EventKind(c.Params("kind"))

	escalated, err := h.service.EscalationStatus(kind)
	if err != nil {
		return err
	}

	return c.JSON(EscalationResponse{Kind: kind, Escalated: escalated})
}

// Acknowledge POST /v1/alerts/:id/ack
func (h *EventsHandler) Acknowledge(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	if err := h.service.AcknowledgeAlert(id); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"acknowledged": true, "id": id})
}
