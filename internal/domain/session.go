package domain

import (
	"time"
)

// SessionState is the exam session lifecycle state.
type SessionState string

const (
	SessionNotStarted SessionState = "not_started"
	SessionRunning    SessionState = "running"
	SessionStopped    SessionState = "stopped"
)

// ExamSession is the single per-process exam session. Transitions are owned
// solely by the session controller; everyone else reads snapshots.
type ExamSession struct {
	State     SessionState `json:"state"`
	StartedAt *time.Time   `json:"started_at,omitempty"`
	StoppedAt *time.Time   `json:"stopped_at,omitempty"`
}
