package calibration

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorly/invigil/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func tempProfilePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "calibration_settings.json")
}

func TestManager_Start(t *testing.T) {
	m := NewManager(NewStaticChecker(), "", testLogger())

	status := m.Start()

	assert.True(t, status.Started)
	assert.False(t, status.Completed)
	assert.Equal(t, StepCameraPosition, status.CurrentStep)
	assert.Equal(t, 0, status.StepIndex)
	assert.Equal(t, len(Steps), status.TotalSteps)
	assert.InDelta(t, 20.0, status.Progress, 1e-9)
}

func TestManager_StatusBeforeStart(t *testing.T) {
	m := NewManager(NewStaticChecker(), "", testLogger())

	status := m.Status()

	assert.False(t, status.Started)
	assert.False(t, status.Completed)
	assert.Empty(t, status.CurrentStep)
	assert.Zero(t, status.Progress)
}

func TestManager_RunTest(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown step", func(t *testing.T) {
		m := NewManager(NewStaticChecker(), "", testLogger())
		m.Start()

		_, err := m.RunTest(ctx, "telepathy_check")
		assert.ErrorIs(t, err, domain.ErrUnknownCalibrationStep)
	})

	t.Run("before start", func(t *testing.T) {
		m := NewManager(NewStaticChecker(), "", testLogger())

		_, err := m.RunTest(ctx, StepLighting)
		assert.ErrorIs(t, err, domain.ErrCalibrationNotStarted)
	})

	t.Run("records the result", func(t *testing.T) {
		m := NewManager(NewStaticChecker(), "", testLogger())
		m.Start()

		result, err := m.RunTest(ctx, StepLighting)
		require.NoError(t, err)
		assert.Equal(t, StepLighting, result.Step)
		assert.Equal(t, "ok", result.Status)
		assert.True(t, result.Passed)
		assert.False(t, result.RanAt.IsZero())

		status := m.Status()
		require.Contains(t, status.Results, StepLighting)
	})

	t.Run("checker failure becomes a structured error result", func(t *testing.T) {
		checker := NewStaticChecker()
		checker.Failures = map[StepID]error{StepAudio: errors.New("microphone not found")}
		m := NewManager(checker, "", testLogger())
		m.Start()

		result, err := m.RunTest(ctx, StepAudio)
		require.NoError(t, err)
		assert.Equal(t, "error", result.Status)
		assert.False(t, result.Passed)
		assert.Equal(t, "microphone not found", result.Message)
	})

	t.Run("out-of-order steps are allowed", func(t *testing.T) {
		m := NewManager(NewStaticChecker(), "", testLogger())
		m.Start()

		_, err := m.RunTest(ctx, StepFinalSettings)
		assert.NoError(t, err)
	})
}

func TestManager_AdvanceThroughAllSteps(t *testing.T) {
	m := NewManager(NewStaticChecker(), "", testLogger())
	m.Start()

	for i := 1; i < len(Steps); i++ {
		status := m.Advance()
		assert.Equal(t, i, status.StepIndex)
		assert.Equal(t, Steps[i], status.CurrentStep)
		assert.False(t, status.Completed)
	}

	status := m.Advance()
	assert.True(t, status.Completed)
	assert.InDelta(t, 100.0, status.Progress, 1e-9)
	assert.Empty(t, status.CurrentStep)

	// Advancing past completion is idempotent.
	again := m.Advance()
	assert.True(t, again.Completed)
	assert.Equal(t, status.StepIndex, again.StepIndex)
}

func TestManager_AdvanceBeforeStart(t *testing.T) {
	m := NewManager(NewStaticChecker(), "", testLogger())

	status := m.Advance()
	assert.False(t, status.Started)
	assert.Zero(t, status.StepIndex)
}

func TestManager_CompletionDerivesProfile(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewStaticChecker(), "", testLogger())
	m.Start()

	for _, step := range Steps {
		_, err := m.RunTest(ctx, step)
		require.NoError(t, err)
	}
	for range Steps {
		m.Advance()
	}

	profile, ok := m.Latest()
	require.True(t, ok)

	// Canned results report "balanced" face detection and a -32 dB room.
	assert.InDelta(t, 1.05, profile.FaceScaleFactor, 1e-9)
	assert.Equal(t, 3, profile.FaceMinNeighbors)
	assert.InDelta(t, -22.0, profile.AudioThresholdDB, 1e-9)
	assert.False(t, profile.CalibratedAt.IsZero())
}

func TestManager_CompletionWithoutTestsUsesDefaults(t *testing.T) {
	m := NewManager(NewStaticChecker(), "", testLogger())
	m.Start()
	for range Steps {
		m.Advance()
	}

	profile, ok := m.Latest()
	require.True(t, ok)
	assert.InDelta(t, 1.1, profile.FaceScaleFactor, 1e-9)
	assert.Equal(t, 5, profile.FaceMinNeighbors)
	assert.InDelta(t, -25.0, profile.AudioThresholdDB, 1e-9)
}

func TestManager_ProfilePersistence(t *testing.T) {
	ctx := context.Background()
	path := tempProfilePath(t)

	m := NewManager(NewStaticChecker(), path, testLogger())
	m.Start()
	for _, step := range Steps {
		_, err := m.RunTest(ctx, step)
		require.NoError(t, err)
	}
	for range Steps {
		m.Advance()
	}

	want, ok := m.Latest()
	require.True(t, ok)

	// The file round-trips.
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var onDisk Profile
	require.NoError(t, json.Unmarshal(data, &onDisk))
	assert.Equal(t, want.FaceScaleFactor, onDisk.FaceScaleFactor)

	// A fresh manager picks the profile back up.
	reloaded := NewManager(NewStaticChecker(), path, testLogger())
	got, ok := reloaded.Latest()
	require.True(t, ok)
	assert.Equal(t, want.FaceScaleFactor, got.FaceScaleFactor)
	assert.Equal(t, want.FaceMinNeighbors, got.FaceMinNeighbors)
	assert.InDelta(t, want.AudioThresholdDB, got.AudioThresholdDB, 1e-9)
}

func TestManager_CorruptProfileFileIsIgnored(t *testing.T) {
	path := tempProfilePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	m := NewManager(NewStaticChecker(), path, testLogger())
	_, ok := m.Latest()
	assert.False(t, ok)
}

func TestManager_RestartClearsResults(t *testing.T) {
	ctx := context.Background()
	m := NewManager(NewStaticChecker(), "", testLogger())
	m.Start()

	_, err := m.RunTest(ctx, StepLighting)
	require.NoError(t, err)
	m.Advance()

	status := m.Start()
	assert.Equal(t, 0, status.StepIndex)
	assert.Empty(t, status.Results)
}
