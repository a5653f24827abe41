package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/proctorly/invigil/internal/engine"
)

// DashboardService provides the consistent one-shot read the dashboard
// renders from.
type DashboardService interface {
	Snapshot() engine.Snapshot
}

// DashboardHandler serves the combined dashboard snapshot.
type DashboardHandler struct {
	service DashboardService
	logger  *slog.Logger
}

func NewDashboardHandler(service DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		logger:  logger,
	}
}

// Snapshot GET /v1/snapshot
func (h *DashboardHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.service.Snapshot())
}
