package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/proctorly/invigil/internal/domain"
)

func newTestClient(hub *Hub) *Client {
	return &Client{hub: hub, send: make(chan []byte, 16)}
}

func runHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	return hub, cancel
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ConnectedClients() == n
	}, 2*time.Second, 5*time.Millisecond)
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	client := newTestClient(hub)
	hub.register <- client
	waitForClients(t, hub, 1)

	hub.unregister <- client
	waitForClients(t, hub, 0)

	// The client's channel is closed on unregister.
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_BroadcastReachesEveryClient(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	first := newTestClient(hub)
	second := newTestClient(hub)
	hub.register <- first
	hub.register <- second
	waitForClients(t, hub, 2)

	hub.Broadcast(EventScore, map[string]float64{"score": 12.5})

	for _, client := range []*Client{first, second} {
		select {
		case raw := <-client.send:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, EventScore, event.Type)
		case <-time.After(2 * time.Second):
			t.Fatal("client did not receive the broadcast")
		}
	}
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	slow := &Client{hub: hub, send: make(chan []byte)} // unbuffered, never read
	hub.register <- slow
	waitForClients(t, hub, 1)

	hub.Broadcast(EventScore, map[string]float64{"score": 1})
	waitForClients(t, hub, 0)
}

func TestHub_ShutdownClosesClients(t *testing.T) {
	hub, cancel := runHub(t)

	client := newTestClient(hub)
	hub.register <- client
	waitForClients(t, hub, 1)

	cancel()

	select {
	case _, open := <-client.send:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("client channel was not closed on shutdown")
	}
}

func TestHub_BroadcastWithoutClientsDoesNotBlock(t *testing.T) {
	hub := NewHub() // no Run loop draining

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Broadcast(EventAlert, domain.Alert{ID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Broadcast blocked")
	}
}

func TestNotifier_ForwardsToHub(t *testing.T) {
	hub, cancel := runHub(t)
	defer cancel()

	client := newTestClient(hub)
	hub.register <- client
	waitForClients(t, hub, 1)

	n := NewNotifier(hub)

	n.AlertRaised(domain.Alert{ID: 1, Severity: domain.SeverityCritical})
	n.ScoreUpdated(42)
	n.SessionChanged(domain.ExamSession{State: domain.SessionRunning})
	n.EventSubmitted(domain.KindTabSwitch, domain.SubmitAccepted) // no-op

	wantTypes := []EventType{EventAlert, EventScore, EventSession}
	for _, want := range wantTypes {
		select {
		case raw := <-client.send:
			var event Event
			require.NoError(t, json.Unmarshal(raw, &event))
			assert.Equal(t, want, event.Type)
		case <-time.After(2 * time.Second):
			t.Fatalf("missing %s event", want)
		}
	}

	// EventSubmitted produced nothing.
	select {
	case raw := <-client.send:
		t.Fatalf("unexpected extra event: %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}
