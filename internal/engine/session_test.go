package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorly/invigil/internal/calibration"
	"github.com/proctorly/invigil/internal/capture"
	"github.com/proctorly/invigil/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type staticProfiles struct {
	profile calibration.Profile
	ok      bool
}

func (s staticProfiles) Latest() (calibration.Profile, bool) {
	return s.profile, s.ok
}

func TestSessionController_Start(t *testing.T) {
	ctx := context.Background()

	t.Run("transitions to running", func(t *testing.T) {
		mock := capture.NewMock()
		c := NewSessionController(mock, nil, testLogger())

		require.NoError(t, c.Start(ctx))

		assert.Equal(t, domain.SessionRunning, c.State())
		assert.True(t, c.IsRunning())
		assert.True(t, mock.Acquired())

		snap := c.Snapshot()
		require.NotNil(t, snap.StartedAt)
		assert.Nil(t, snap.StoppedAt)
	})

	t.Run("double start is rejected", func(t *testing.T) {
		c := NewSessionController(capture.NewMock(), nil, testLogger())

		require.NoError(t, c.Start(ctx))
		err := c.Start(ctx)

		assert.ErrorIs(t, err, domain.ErrAlreadyRunning)
		assert.Equal(t, domain.SessionRunning, c.State())
	})

	t.Run("acquire failure keeps state unchanged", func(t *testing.T) {
		mock := capture.NewMock()
		mock.AcquireErr = errors.New("camera busy")
		c := NewSessionController(mock, nil, testLogger())

		err := c.Start(ctx)

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrCaptureUnavailable)
		assert.Equal(t, domain.SessionNotStarted, c.State())
		assert.Nil(t, c.Snapshot().StartedAt)
	})

	t.Run("retry after acquire failure succeeds", func(t *testing.T) {
		mock := capture.NewMock()
		mock.AcquireErr = errors.New("camera busy")
		c := NewSessionController(mock, nil, testLogger())

		require.Error(t, c.Start(ctx))

		mock.AcquireErr = nil
		require.NoError(t, c.Start(ctx))
		assert.True(t, c.IsRunning())
	})

	t.Run("applies the latest calibration profile", func(t *testing.T) {
		mock := capture.NewMock()
		want := calibration.Profile{FaceScaleFactor: 1.05, FaceMinNeighbors: 3, AudioThresholdDB: -22}
		c := NewSessionController(mock, staticProfiles{profile: want, ok: true}, testLogger())

		require.NoError(t, c.Start(ctx))

		got, ok := mock.Profile()
		require.True(t, ok)
		assert.Equal(t, want, got)
	})

	t.Run("no profile available skips apply", func(t *testing.T) {
		mock := capture.NewMock()
		c := NewSessionController(mock, staticProfiles{}, testLogger())

		require.NoError(t, c.Start(ctx))

		_, ok := mock.Profile()
		assert.False(t, ok)
	})

	t.Run("restart after stop", func(t *testing.T) {
		c := NewSessionController(capture.NewMock(), nil, testLogger())

		require.NoError(t, c.Start(ctx))
		require.NoError(t, c.Stop(ctx))
		require.NoError(t, c.Start(ctx))

		assert.True(t, c.IsRunning())
		assert.Nil(t, c.Snapshot().StoppedAt)
	})
}

func TestSessionController_Stop(t *testing.T) {
	ctx := context.Background()

	t.Run("transitions to stopped", func(t *testing.T) {
		mock := capture.NewMock()
		c := NewSessionController(mock, nil, testLogger())

		require.NoError(t, c.Start(ctx))
		require.NoError(t, c.Stop(ctx))

		assert.Equal(t, domain.SessionStopped, c.State())
		assert.False(t, mock.Acquired())
		require.NotNil(t, c.Snapshot().StoppedAt)
	})

	t.Run("stop before start is rejected without mutation", func(t *testing.T) {
		c := NewSessionController(capture.NewMock(), nil, testLogger())

		err := c.Stop(ctx)

		assert.ErrorIs(t, err, domain.ErrNotRunning)
		assert.Equal(t, domain.SessionNotStarted, c.State())
		assert.Nil(t, c.Snapshot().StoppedAt)
	})

	t.Run("double stop keeps the first timestamp", func(t *testing.T) {
		c := NewSessionController(capture.NewMock(), nil, testLogger())
		c.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

		require.NoError(t, c.Start(ctx))
		require.NoError(t, c.Stop(ctx))
		first := c.Snapshot().StoppedAt

		c.now = func() time.Time { return time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC) }
		assert.ErrorIs(t, c.Stop(ctx), domain.ErrNotRunning)
		assert.Equal(t, first, c.Snapshot().StoppedAt)
	})

	t.Run("release failure still stops the session", func(t *testing.T) {
		mock := capture.NewMock()
		mock.ReleaseErr = errors.New("device wedged")
		c := NewSessionController(mock, nil, testLogger())

		require.NoError(t, c.Start(ctx))
		require.NoError(t, c.Stop(ctx))

		assert.Equal(t, domain.SessionStopped, c.State())
	})
}
