package engine

import (
	"context"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/proctorly/invigil/internal/audit"
	"github.com/proctorly/invigil/internal/domain"
)

// Observer receives push notifications about pipeline activity. The monitor
// calls observers outside its pipeline lock; implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	EventSubmitted(kind domain.EventKind, result domain.SubmitResult)
	AlertRaised(alert domain.Alert)
	ScoreUpdated(score float64)
}

// RecordQueue is where the monitor emits the append-only audit stream.
// Enqueue must never block.
type RecordQueue interface {
	Enqueue(record audit.Record) bool
}

// Config tunes the fusion engine. Zero values fall back to defaults.
type Config struct {
	Rules               map[domain.EventKind]Rule
	DecayRate           float64       // suspicion points shed per second
	Window              time.Duration // rolling violation window per kind
	EscalationThreshold int           // same-kind count that forces critical
	HistoryLimit        int           // in-memory alert history cap
}

func (c Config) withDefaults() Config {
	if c.Rules == nil {
		c.Rules = DefaultRules()
	}
	if c.DecayRate == 0 {
		c.DecayRate = 0.5
	}
	if c.Window == 0 {
		c.Window = 60 * time.Second
	}
	if c.EscalationThreshold == 0 {
		c.EscalationThreshold = 3
	}
	if c.HistoryLimit == 0 {
		c.HistoryLimit = 1000
	}
	return c
}

// Snapshot is a consistent read of everything the dashboard polls.
type Snapshot struct {
	Session    domain.ExamSession     `json:"session"`
	Score      float64                `json:"score"`
	Latest     *domain.Alert          `json:"latest_alert,omitempty"`
	Statistics domain.AlertStatistics `json:"statistics"`
}

// Monitor fuses detection events into the suspicion score and alert stream.
// One mutex guards the whole accept->score->count->alert pipeline so two
// concurrent events can never observe or produce a partial update; score
// decay takes the same lock, and readers copy out under it.
type Monitor struct {
	mu sync.Mutex

	cfg     Config
	session *SessionController
	score   *ScoreAggregator
	tracker *ViolationTracker
	alerts  *AlertEngine

	lastAccepted map[domain.EventKind]time.Time
	lastTick     time.Time

	records   RecordQueue
	observers []Observer
	logger    *slog.Logger
	now       func() time.Time
}

func NewMonitor(cfg Config, session *SessionController, records RecordQueue, logger *slog.Logger, observers ...Observer) *Monitor {
	cfg = cfg.withDefaults()
	m := &Monitor{
		cfg:          cfg,
		session:      session,
		score:        NewScoreAggregator(cfg.DecayRate),
		tracker:      NewViolationTracker(cfg.Window),
		alerts:       NewAlertEngine(cfg.Rules, cfg.EscalationThreshold, cfg.HistoryLimit),
		lastAccepted: make(map[domain.EventKind]time.Time),
		records:      records,
		observers:    observers,
		logger:       logger,
		now:          time.Now,
	}
	m.lastTick = m.now()
	return m
}

// Submit ingests one detection event. Unknown kinds and non-finite or
// negative weights are dropped with an error and a diagnostic; they never
// crash the pipeline. Events arriving while the session is not running are
// rejected outright, not queued.
func (m *Monitor) Submit(ctx context.Context, ev domain.DetectionEvent) (domain.SubmitResult, error) {
	if !ev.Kind.Valid() {
		m.logger.Warn("dropped event with unknown kind", "kind", ev.Kind)
		return domain.SubmitRejected, domain.ErrUnknownEventKind
	}
	if math.IsNaN(ev.Weight) || math.IsInf(ev.Weight, 0) || ev.Weight < 0 {
		m.logger.Warn("dropped event with invalid weight", "kind", ev.Kind, "weight", ev.Weight)
		return domain.SubmitRejected, domain.ErrInvalidWeight
	}

	rule := m.cfg.Rules[ev.Kind]
	if ev.Weight == 0 {
		ev.Weight = rule.Weight
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = m.now()
	}

	m.mu.Lock()

	if !m.session.IsRunning() {
		m.mu.Unlock()
		m.notifySubmitted(ev.Kind, domain.SubmitRejected)
		return domain.SubmitRejected, nil
	}

	if last, ok := m.lastAccepted[ev.Kind]; ok && ev.OccurredAt.Sub(last) < rule.Cooldown {
		m.mu.Unlock()
		m.notifySubmitted(ev.Kind, domain.SubmitSuppressed)
		return domain.SubmitSuppressed, nil
	}
	m.lastAccepted[ev.Kind] = ev.OccurredAt

	// Score first, then the count that drives escalation: the score must
	// reflect every accepted event before the alert engine evaluates it.
	m.score.Apply(ev.Weight)
	count := m.tracker.RecordAndCount(ev.Kind, ev.OccurredAt)
	alert := m.alerts.OnViolation(ev, count)
	scoreNow := m.score.Current()

	m.mu.Unlock()

	m.logger.Info("detection event accepted",
		"kind", ev.Kind,
		"weight", ev.Weight,
		"count", count,
		"severity", alert.Severity,
		"score", scoreNow,
	)

	if m.records != nil {
		m.records.Enqueue(audit.Record{
			ID:         uuid.New(),
			Kind:       ev.Kind,
			OccurredAt: ev.OccurredAt,
			Result:     domain.SubmitAccepted,
			Weight:     ev.Weight,
			AlertID:    &alert.ID,
			Severity:   alert.Severity,
			Escalated:  alert.Escalated,
			Score:      scoreNow,
		})
	}
	m.notifySubmitted(ev.Kind, domain.SubmitAccepted)
	for _, o := range m.observers {
		o.AlertRaised(alert)
		o.ScoreUpdated(scoreNow)
	}

	return domain.SubmitAccepted, nil
}

// Tick applies score decay for the time elapsed since the previous tick.
// Runs under the same lock as Submit, so decay and event application never
// race.
func (m *Monitor) Tick(now time.Time) {
	m.mu.Lock()
	dt := now.Sub(m.lastTick)
	m.lastTick = now
	if dt > 0 {
		m.score.Decay(dt)
	}
	scoreNow := m.score.Current()
	m.mu.Unlock()

	for _, o := range m.observers {
		o.ScoreUpdated(scoreNow)
	}
}

// StartSession starts the exam session, resetting the score, the violation
// windows and the cooldown state for a fresh attempt.
func (m *Monitor) StartSession(ctx context.Context) error {
	m.mu.Lock()
	err := m.session.Start(ctx)
	if err == nil {
		m.score.Reset()
		m.tracker.Reset()
		m.lastAccepted = make(map[domain.EventKind]time.Time)
		m.lastTick = m.now()
	}
	m.mu.Unlock()

	if err == nil {
		for _, o := range m.observers {
			o.ScoreUpdated(0)
		}
	}
	return err
}

// StopSession stops the exam session. Safe to call concurrently with
// in-flight Submit calls: any event arriving after the state flips is
// rejected, not queued.
func (m *Monitor) StopSession(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Stop(ctx)
}

// Score returns the current suspicion score.
func (m *Monitor) Score() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.score.Current()
}

// Session returns a copy of the exam session.
func (m *Monitor) Session() domain.ExamSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.Snapshot()
}

// State returns the session state.
func (m *Monitor) State() domain.SessionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session.State()
}

// LatestAlert returns the most recent pending alert, or the most recent
// overall when nothing is pending. Alerts are never cleared by score decay.
func (m *Monitor) LatestAlert() (domain.Alert, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alerts.LatestAlert()
}

// Statistics returns aggregate alert counts by severity.
func (m *Monitor) Statistics() domain.AlertStatistics {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alerts.Statistics()
}

// RecentAlerts returns up to n alerts, newest first.
func (m *Monitor) RecentAlerts(n int) []domain.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.alerts.Recent(n)
}

// AcknowledgeAlert marks an alert as seen by the operator.
func (m *Monitor) AcknowledgeAlert(id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.alerts.Acknowledge(id) {
		return domain.ErrAlertNotFound
	}
	return nil
}

// EscalationStatus reports whether the kind has reached the escalation
// threshold within its current rolling window.
func (m *Monitor) EscalationStatus(kind domain.EventKind) (bool, error) {
	if !kind.Valid() {
		return false, domain.ErrUnknownEventKind
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tracker.Count(kind, m.now()) >= m.cfg.EscalationThreshold, nil
}

// Snapshot copies out everything the dashboard polls in one bounded
// critical section.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := Snapshot{
		Session:    m.session.Snapshot(),
		Score:      m.score.Current(),
		Statistics: m.alerts.Statistics(),
	}
	if latest, ok := m.alerts.LatestAlert(); ok {
		snap.Latest = &latest
	}
	return snap
}

func (m *Monitor) notifySubmitted(kind domain.EventKind, result domain.SubmitResult) {
	for _, o := range m.observers {
		o.EventSubmitted(kind, result)
	}
}
