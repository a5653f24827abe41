package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/proctorly/invigil/internal/domain"
)

// SessionService is the slice of the engine the session handler needs.
type SessionService interface {
	StartSession(ctx context.Context) error
	StopSession(ctx context.Context) error
	Session() domain.ExamSession
}

// SessionHandler exposes the exam session lifecycle.
type SessionHandler struct {
	service SessionService
	logger  *slog.Logger
}

func NewSessionHandler(service SessionService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		service: service,
		logger:  logger,
	}
}

// SessionResponse wraps the session for transport.
type SessionResponse struct {
	Status  string             `json:"status"`
	Session domain.ExamSession `json:"session"`
}

// Start POST /v1/session/start
func (h *SessionHandler) Start(c *fiber.Ctx) error {
	if err := h.service.StartSession(c.Context()); err != nil {
		return err
	}

	return c.JSON(SessionResponse{
		Status:  "started",
		Session: h.service.Session(),
	})
}

// Stop POST /v1/session/stop
func (h *SessionHandler) Stop(c *fiber.Ctx) error {
	if err := h.service.StopSession(c.Context()); err != nil {
		return err
	}

	return c.JSON(SessionResponse{
		Status:  "stopped",
		Session: h.service.Session(),
	})
}

// Get GET /v1/session
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.service.Session())
}
