package api

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	swagger "github.com/go-swagno/swagno-fiber/swagger"
	"github.com/proctorly/invigil/internal/api/docs"
	"github.com/proctorly/invigil/internal/api/handler"
	"github.com/proctorly/invigil/internal/api/middleware"
	"github.com/proctorly/invigil/internal/calibration"
	"github.com/proctorly/invigil/internal/engine"
	"github.com/proctorly/invigil/internal/metrics"
	"github.com/proctorly/invigil/internal/recording"
	"github.com/proctorly/invigil/internal/ws"
)

type Dependencies struct {
	Monitor     *engine.Monitor
	Calibration *calibration.Manager
	Recorder    *recording.Recorder
	Metrics     *metrics.Collector
	Hub         *ws.Hub
	// LogStore is optional: nil when no database is configured.
	LogStore handler.LogStore
}

type Router struct {
	app       *fiber.App
	logger    *slog.Logger
	deps      *Dependencies
	cancelHub context.CancelFunc
}

func NewRouter(logger *slog.Logger, deps *Dependencies) *Router {
	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(logger),
		AppName:      "Invigil API",
	})

	return &Router{
		app:    app,
		logger: logger,
		deps:   deps,
	}
}

func (r *Router) Setup() {
	// Global middlewares
	r.app.Use(requestid.New())
	r.app.Use(middleware.Recover(r.logger))
	r.app.Use(middleware.Logger(r.logger))
	r.app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Swagger documentation
	sw := docs.NewSwagger()
	swagger.SwaggerHandler(r.app, sw.MustToJson())

	// Health check endpoints
	healthHandler := handler.NewHealthHandler()
	r.app.Get("/health", healthHandler.Health)
	r.app.Get("/ready", healthHandler.Ready)

	if r.deps == nil {
		return
	}

	// Prometheus scrape endpoint
	if r.deps.Metrics != nil {
		r.app.Get("/metrics", adaptor.HTTPHandler(r.deps.Metrics.Handler()))
	}

	// WebSocket hub push loop
	if r.deps.Hub != nil {
		hubCtx, hubCancel := context.WithCancel(context.Background())
		r.cancelHub = hubCancel
		go r.deps.Hub.Run(hubCtx)
	}

	v1 := r.app.Group("/v1")

	// Session lifecycle
	sessionHandler := handler.NewSessionHandler(r.deps.Monitor, r.logger)
	v1.Post("/session/start", sessionHandler.Start)
	v1.Post("/session/stop", sessionHandler.Stop)
	v1.Get("/session", sessionHandler.Get)

	// Event ingestion, score and alerts
	eventsHandler := handler.NewEventsHandler(r.deps.Monitor, r.logger)
	v1.Post("/events", eventsHandler.Submit)
	v1.Get("/score", eventsHandler.Score)
	v1.Get("/alerts/latest", eventsHandler.LatestAlert)
	v1.Get("/alerts/statistics", eventsHandler.Statistics)
	v1.Get("/alerts/recent", eventsHandler.Recent)
	v1.Get("/alerts/escalation/:kind", eventsHandler.Escalation)
	v1.Post("/alerts/:id/ack", eventsHandler.Acknowledge)

	// Dashboard snapshot
	dashboardHandler := handler.NewDashboardHandler(r.deps.Monitor, r.logger)
	v1.Get("/snapshot", dashboardHandler.Snapshot)

	// Calibration wizard
	if r.deps.Calibration != nil {
		calibrationHandler := handler.NewCalibrationHandler(r.deps.Calibration, r.logger)
		v1.Post("/calibration/start", calibrationHandler.Start)
		v1.Get("/calibration/status", calibrationHandler.Status)
		v1.Post("/calibration/test/:step", calibrationHandler.Test)
		v1.Post("/calibration/next", calibrationHandler.Advance)
	}

	// Screen recording
	if r.deps.Recorder != nil {
		recordingHandler := handler.NewRecordingHandler(r.deps.Recorder, r.logger)
		v1.Post("/recording/toggle", recordingHandler.Toggle)
		v1.Post("/recording/stop", recordingHandler.Stop)
		v1.Get("/recording/status", recordingHandler.Status)
	}

	// WebSocket endpoint
	if r.deps.Hub != nil {
		v1.Get("/ws", ws.UpgradeMiddleware(), ws.Handler(r.deps.Hub))
	}

	// Persisted audit trail (only when a database is configured)
	if r.deps.LogStore != nil {
		logsHandler := handler.NewLogsHandler(r.deps.LogStore, r.logger)
		v1.Get("/admin/logs", logsHandler.List)
	}
}

func (r *Router) App() *fiber.App {
	return r.app
}

func (r *Router) Listen(addr string) error {
	return r.app.Listen(addr)
}

func (r *Router) Shutdown() error {
	if r.cancelHub != nil {
		r.cancelHub()
	}

	return r.app.Shutdown()
}
