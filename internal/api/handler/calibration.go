package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/proctorly/invigil/internal/calibration"
)

// CalibrationService is the wizard surface exposed over HTTP.
type CalibrationService interface {
	Start() calibration.Status
	Status() calibration.Status
	RunTest(ctx context.Context, step calibration.StepID) (calibration.TestResult, error)
	Advance() calibration.Status
}

// CalibrationHandler exposes the guided calibration wizard.
type CalibrationHandler struct {
	service CalibrationService
	logger  *slog.Logger
}

func NewCalibrationHandler(service CalibrationService, logger *slog.Logger) *CalibrationHandler {
	return &CalibrationHandler{
		service: service,
		logger:  logger,
	}
}

// Start POST /v1/calibration/start
func (h *CalibrationHandler) Start(c *fiber.Ctx) error {
	return c.JSON(h.service.Start())
}

// Status GET /v1/calibration/status
func (h *CalibrationHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// Test POST /v1/calibration/test/:step
func (h *CalibrationHandler) Test(c *fiber.Ctx) error {
	step := calibration.StepID(c.Params("step"))

	result, err := h.service.RunTest(c.Context(), step)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// Advance POST /v1/calibration/next
func (h *CalibrationHandler) Advance(c *fiber.Ctx) error {
	return c.JSON(h.service.Advance())
}
