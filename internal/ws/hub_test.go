package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met before deadline")
}

func TestHub_RoutesPerUser(t *testing.T) {
	hub := NewHub(zap.NewNop())
	done := make(chan struct{})
	defer close(done)
	go hub.Run(done)

	alice, bob := uuid.New(), uuid.New()
	a := &Client{hub: hub, userID: alice, send: make(chan []byte, 4)}
	b := &Client{hub: hub, userID: bob, send: make(chan []byte, 4)}
	hub.Register(a)
	hub.Register(b)
	waitFor(t, func() bool { return hub.ClientCount() == 2 })

	pusher := NewMatchPusher(hub)
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := pusher.PushMatch(alice, MatchFoundEvent{AlertID: "a1", JobTitle: "Backend", Score: 82.5}, at); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case msg := <-a.send:
		var evt MatchFoundEvent
		if err := json.Unmarshal(msg, &evt); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if evt.Type != EventMatchFound || evt.Score != 82.5 || evt.Timestamp != "2024-05-01T10:00:00Z" {
			t.Fatalf("unexpected event: %+v", evt)
		}
		if evt.MatchedSkills == nil || evt.MissingSkills == nil {
			t.Fatalf("expected empty skill lists, got nil")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("expected message for alice")
	}

	select {
	case msg := <-b.send:
		t.Fatalf("expected nothing for bob, got %s", msg)
	case <-time.After(50 * time.Millisecond):
	}

	hub.Unregister(a)
	waitFor(t, func() bool { return hub.ClientCount() == 1 })
	if _, ok := <-a.send; ok {
		t.Fatalf("expected send channel to be closed")
	}
}

func TestHub_NilIsSafe(t *testing.T) {
	var hub *Hub
	hub.SendToUser(uuid.New(), []byte("x"))
	hub.Register(nil)
	if hub.ClientCount() != 0 {
		t.Fatalf("expected zero clients")
	}
	var p *MatchPusher
	if err := p.PushMatch(uuid.New(), MatchFoundEvent{}, time.Now()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}
