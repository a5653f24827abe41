package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/proctorly/invigil/internal/audit"
	"github.com/proctorly/invigil/internal/domain"
)

// LogStore reads back the persisted proctoring stream.
type LogStore interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Record, error)
}

// LogsHandler serves the audit trail to the operator.
type LogsHandler struct {
	store  LogStore
	logger *slog.Logger
}

func NewLogsHandler(store LogStore, logger *slog.Logger) *LogsHandler {
	return &LogsHandler{
		store:  store,
		logger: logger,
	}
}

// LogsResponse lists audit records, newest first.
type LogsResponse struct {
	Records []audit.Record `json:"records"`
}

// List GET /v1/admin/logs?count=n
func (h *LogsHandler) List(c *fiber.Ctx) error {
	count := c.QueryInt("count", 50)

	records, err := h.store.ListRecent(c.Context(), count)
	if err != nil {
		return domain.ErrInternal.WithError(err)
	}
	if records == nil {
		records = []audit.Record{}
	}

	return c.JSON(LogsResponse{Records: records})
}
