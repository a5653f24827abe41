package domain

import (
	"time"
)

// Severity tiers an alert for the operator dashboard.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Alert is a classified violation produced by the alert engine.
// Immutable after creation except for Acknowledged.
type Alert struct {
	ID           int64     `json:"id"`
	Message      string    `json:"message"`
	Severity     Severity  `json:"severity"`
	SourceKind   EventKind `json:"source_kind"`
	CreatedAt    time.Time `json:"created_at"`
	Escalated    bool      `json:"escalated"`
	Acknowledged bool      `json:"acknowledged"`
}

// AlertStatistics aggregates the alert history by severity.
type AlertStatistics struct {
	Total      int              `json:"total"`
	BySeverity map[Severity]int `json:"by_severity"`
}
