package handler

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/proctorly/invigil/internal/recording"
)

// RecordingService controls evidence collection.
type RecordingService interface {
	Toggle() bool
	Stop() bool
	Status() recording.Status
}

// RecordingHandler exposes screen-recording control to the dashboard.
type RecordingHandler struct {
	service RecordingService
	logger  *slog.Logger
}

func NewRecordingHandler(service RecordingService, logger *slog.Logger) *RecordingHandler {
	return &RecordingHandler{
		service: service,
		logger:  logger,
	}
}

// Toggle POST /v1/recording/toggle
func (h *RecordingHandler) Toggle(c *fiber.Ctx) error {
	recording := h.service.Toggle()
	return c.JSON(fiber.Map{"recording": recording})
}

// Stop POST /v1/recording/stop
func (h *RecordingHandler) Stop(c *fiber.Ctx) error {
	h.service.Stop()
	return c.JSON(fiber.Map{"recording": false})
}

// Status GET /v1/recording/status
func (h *RecordingHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}
