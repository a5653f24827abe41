package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/proctorly/invigil/internal/domain"
)

// Record is one entry of the append-only proctoring stream: the detection
// event, the alert it produced (if any) and the running suspicion score at
// that instant. Enough to reconstruct a session after the fact.
type Record struct {
	ID         uuid.UUID           `json:"id"`
	Kind       domain.EventKind    `json:"kind"`
	OccurredAt time.Time           `json:"occurred_at"`
	Result     domain.SubmitResult `json:"result"`
	Weight     float64             `json:"weight"`
	AlertID    *int64              `json:"alert_id,omitempty"`
	Severity   domain.Severity     `json:"severity,omitempty"`
	Escalated  bool                `json:"escalated"`
	Score      float64             `json:"score"`
}

// Sink receives records from the engine. Implementations must tolerate
// being called from a single background goroutine.
type Sink interface {
	Write(ctx context.Context, record Record) error
}

// SlogSink writes records to the structured log.
type SlogSink struct {
	logger *slog.Logger
}

func NewSlogSink(logger *slog.Logger) *SlogSink {
	return &SlogSink{logger: logger.With("component", "audit")}
}

func (s *SlogSink) Write(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to marshal audit record",
			slog.String("error", err.Error()),
			slog.String("kind", string(record.Kind)),
		)
		return err
	}

	s.logger.InfoContext(ctx, "proctor_event",
		slog.String("record_id", record.ID.String()),
		slog.String("kind", string(record.Kind)),
		slog.String("result", string(record.Result)),
		slog.Float64("score", record.Score),
		slog.String("record", string(data)),
	)
	return nil
}

// MultiSink fans a record out to several sinks; the first error wins but
// every sink is attempted.
type MultiSink struct {
	sinks []Sink
}

func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) Write(ctx context.Context, record Record) error {
	var firstErr error
	for _, s := range m.sinks {
		if err := s.Write(ctx, record); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// NoOpSink discards records (for tests or when auditing is disabled).
type NoOpSink struct{}

func (NoOpSink) Write(_ context.Context, _ Record) error {
	return nil
}
