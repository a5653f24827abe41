package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/proctorly/invigil/internal/capture"
	"github.com/proctorly/invigil/internal/domain"
)

func TestDecayWorker_Run(t *testing.T) {
	ctx := context.Background()
	session := NewSessionController(capture.NewMock(), nil, testLogger())
	m := NewMonitor(Config{DecayRate: 100, Rules: zeroCooldownRules()}, session, nil, testLogger())
	require.NoError(t, m.StartSession(ctx))

	_, err := m.Submit(ctx, domain.DetectionEvent{Kind: domain.KindTabSwitch, Weight: 50})
	require.NoError(t, err)
	require.Greater(t, m.Score(), 0.0)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewDecayWorker(m, testLogger(), 5*time.Millisecond)
	go w.Run(workerCtx)

	require.Eventually(t, func() bool {
		return m.Score() == 0
	}, 2*time.Second, 10*time.Millisecond, "score should decay to zero")
}

func TestDecayWorker_StopsOnCancel(t *testing.T) {
	session := NewSessionController(capture.NewMock(), nil, testLogger())
	m := NewMonitor(Config{}, session, nil, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	w := NewDecayWorker(m, testLogger(), time.Millisecond)

	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after cancel")
	}
}
