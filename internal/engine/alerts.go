package engine

import (
	"github.com/proctorly/invigil/internal/domain"
)

const escalatedPrefix = "ESCALATED: "

// AlertEngine turns (event, in-window count) pairs into severity-tiered
// alerts and retains a bounded in-memory history for audit queries.
// Guarded by the monitor's pipeline lock.
type AlertEngine struct {
	rules               map[domain.EventKind]Rule
	escalationThreshold int
	historyLimit        int

	nextID     int64
	history    []*domain.Alert
	total      int
	bySeverity map[domain.Severity]int
}

func NewAlertEngine(rules map[domain.EventKind]Rule, escalationThreshold, historyLimit int) *AlertEngine {
	return &AlertEngine{
		rules:               rules,
		escalationThreshold: escalationThreshold,
		historyLimit:        historyLimit,
		nextID:              1,
		bySeverity:          make(map[domain.Severity]int),
	}
}

// OnViolation produces exactly one new alert for an accepted event. The Nth
// same-kind occurrence within its rolling window, for N at or past the
// escalation threshold, is forced to critical regardless of the kind's base
// tier. Prior alerts are never mutated retroactively.
func (e *AlertEngine) OnViolation(ev domain.DetectionEvent, count int) domain.Alert {
	rule := e.rules[ev.Kind]

	severity := rule.BaseSeverity
	message := rule.Message
	escalated := count >= e.escalationThreshold
	if escalated {
		severity = domain.SeverityCritical
		message = escalatedPrefix + message
	}

	alert := &domain.Alert{
		ID:         e.nextID,
		Message:    message,
		Severity:   severity,
		SourceKind: ev.Kind,
		CreatedAt:  ev.OccurredAt,
		Escalated:  escalated,
	}
	e.nextID++

	e.history = append(e.history, alert)
	if e.historyLimit > 0 && len(e.history) > e.historyLimit {
		e.history = e.history[len(e.history)-e.historyLimit:]
	}

	e.total++
	e.bySeverity[severity]++

	return *alert
}

// LatestAlert returns the most recently created unacknowledged alert, or the
// most recent overall when none are pending. The second return is false when
// no alert has ever been raised.
func (e *AlertEngine) LatestAlert() (domain.Alert, bool) {
	if len(e.history) == 0 {
		return domain.Alert{}, false
	}
	for i := len(e.history) - 1; i >= 0; i-- {
		if !e.history[i].Acknowledged {
			return *e.history[i], true
		}
	}
	return *e.history[len(e.history)-1], true
}

// Acknowledge marks the alert with the given id as seen by the operator.
func (e *AlertEngine) Acknowledge(id int64) bool {
	for i := len(e.history) - 1; i >= 0; i-- {
		if e.history[i].ID == id {
			e.history[i].Acknowledged = true
			return true
		}
	}
	return false
}

// Recent returns up to n alerts, newest first.
func (e *AlertEngine) Recent(n int) []domain.Alert {
	if n <= 0 || n > len(e.history) {
		n = len(e.history)
	}
	out := make([]domain.Alert, 0, n)
	for i := len(e.history) - 1; i >= len(e.history)-n; i-- {
		out = append(out, *e.history[i])
	}
	return out
}

// Statistics aggregates counts by severity over every alert ever raised.
// Counters run independently of the bounded history, so trimming old alerts
// never skews the totals.
func (e *AlertEngine) Statistics() domain.AlertStatistics {
	by := make(map[domain.Severity]int, len(e.bySeverity))
	for sev, n := range e.bySeverity {
		by[sev] = n
	}
	for _, sev := range []domain.Severity{domain.SeverityInfo, domain.SeverityWarning, domain.SeverityCritical} {
		if _, ok := by[sev]; !ok {
			by[sev] = 0
		}
	}
	return domain.AlertStatistics{Total: e.total, BySeverity: by}
}
