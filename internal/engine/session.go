package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/proctorly/invigil/internal/calibration"
	"github.com/proctorly/invigil/internal/domain"
)

// CaptureResources is the external camera/microphone lifecycle hook. The
// controller acquires on start and releases on stop; it never touches raw
// frames or samples itself.
type CaptureResources interface {
	Acquire(ctx context.Context) error
	Release(ctx context.Context) error
	ApplyProfile(profile calibration.Profile)
}

// ProfileSource supplies the latest completed calibration profile, consumed
// by the capture layer whenever a session starts.
type ProfileSource interface {
	Latest() (calibration.Profile, bool)
}

// SessionController owns the exam session state machine. It is not safe for
// concurrent use on its own; the monitor serializes all access under its
// pipeline lock.
type SessionController struct {
	session   domain.ExamSession
	resources CaptureResources
	profiles  ProfileSource
	logger    *slog.Logger
	now       func() time.Time
}

func NewSessionController(resources CaptureResources, profiles ProfileSource, logger *slog.Logger) *SessionController {
	return &SessionController{
		session:   domain.ExamSession{State: domain.SessionNotStarted},
		resources: resources,
		profiles:  profiles,
		logger:    logger,
		now:       time.Now,
	}
}

// Start transitions NotStarted/Stopped into Running. A double start is a
// client error. Resource acquisition failure rolls the state back and is
// surfaced to the caller so the session can be retried.
func (c *SessionController) Start(ctx context.Context) error {
	if c.session.State == domain.SessionRunning {
		return domain.ErrAlreadyRunning
	}

	if c.resources != nil {
		if c.profiles != nil {
			if p, ok := c.profiles.Latest(); ok {
				c.resources.ApplyProfile(p)
			}
		}
		if err := c.resources.Acquire(ctx); err != nil {
			c.logger.Error("capture acquisition failed", "error", err)
			return domain.ErrCaptureUnavailable.WithError(err)
		}
	}

	started := c.now()
	c.session.State = domain.SessionRunning
	c.session.StartedAt = &started
	c.session.StoppedAt = nil

	c.logger.Info("exam session started", "started_at", started)
	return nil
}

// Stop transitions Running into Stopped. Stopping a non-running session is a
// client error and does not mutate StoppedAt. Resource release is
// best-effort: a failure is logged, the transition still proceeds so the
// session is never stranded in Running.
func (c *SessionController) Stop(ctx context.Context) error {
	if c.session.State != domain.SessionRunning {
		return domain.ErrNotRunning
	}

	if c.resources != nil {
		if err := c.resources.Release(ctx); err != nil {
			c.logger.Error("capture release failed, stopping anyway", "error", err)
		}
	}

	stopped := c.now()
	c.session.State = domain.SessionStopped
	c.session.StoppedAt = &stopped

	c.logger.Info("exam session stopped", "stopped_at", stopped)
	return nil
}

// IsRunning never fails and never mutates.
func (c *SessionController) IsRunning() bool {
	return c.session.State == domain.SessionRunning
}

// State never fails and never mutates.
func (c *SessionController) State() domain.SessionState {
	return c.session.State
}

// Snapshot returns a copy of the session for read-only queries.
func (c *SessionController) Snapshot() domain.ExamSession {
	return c.session
}
