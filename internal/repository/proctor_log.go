package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/proctorly/invigil/internal/audit"
	"github.com/proctorly/invigil/internal/domain"
)

// DB interface for database operations (compatible with pgxpool.Pool and pgxmock)
type DB interface {
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
}

// ProctorLogRepository persists the append-only proctoring stream to
// Postgres. It implements audit.Sink.
type ProctorLogRepository struct {
	db DB
}

func NewProctorLogRepository(db *pgxpool.Pool) *ProctorLogRepository {
	return &ProctorLogRepository{db: db}
}

// NewProctorLogRepositoryWithDB creates a repository with a custom DB
// interface, used by tests.
func NewProctorLogRepositoryWithDB(db DB) *ProctorLogRepository {
	return &ProctorLogRepository{db: db}
}

// Write appends one record.
func (r *ProctorLogRepository) Write(ctx context.Context, record audit.Record) error {
	query := `
		INSERT INTO proctor_log (id, kind, occurred_at, result, weight, alert_id, severity, escalated, score)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.Exec(ctx, query,
		record.ID,
		string(record.Kind),
		record.OccurredAt,
		string(record.Result),
		record.Weight,
		record.AlertID,
		string(record.Severity),
		record.Escalated,
		record.Score,
	)
	if err != nil {
		return fmt.Errorf("insert proctor log record: %w", err)
	}
	return nil
}

// ListRecent returns up to limit records, newest first.
func (r *ProctorLogRepository) ListRecent(ctx context.Context, limit int) ([]audit.Record, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, kind, occurred_at, result, weight, alert_id, severity, escalated, score
		FROM proctor_log
		ORDER BY occurred_at DESC
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list proctor log records: %w", err)
	}
	defer rows.Close()

	var records []audit.Record
	for rows.Next() {
		var rec audit.Record
		var kind, result, severity string
		if err := rows.Scan(
			&rec.ID,
			&kind,
			&rec.OccurredAt,
			&result,
			&rec.Weight,
			&rec.AlertID,
			&severity,
			&rec.Escalated,
			&rec.Score,
		); err != nil {
			return nil, fmt.Errorf("scan proctor log record: %w", err)
		}
		rec.Kind = domain.EventKind(kind)
		rec.Result = domain.SubmitResult(result)
		rec.Severity = domain.Severity(severity)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate proctor log records: %w", err)
	}
	return records, nil
}
