package app

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"typerace/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeClient records broadcast events for assertions
type fakeClient struct {
	id     string
	mu     sync.Mutex
	events []*domain.GameEvent
}

func (f *fakeClient) Send(message interface{}) error {
	if ev, ok := message.(*domain.GameEvent); ok {
		f.mu.Lock()
		f.events = append(f.events, ev)
		f.mu.Unlock()
	}
	return nil
}

func (f *fakeClient) PlayerID() string { return f.id }

func (f *fakeClient) Close() error { return nil }

// waitFor blocks until the client has received an event of the given type.
// Broadcasts are delivered by the session's event loop goroutine.
func (f *fakeClient) waitFor(t *testing.T, want domain.EventType) *domain.GameEvent {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		f.mu.Lock()
		for _, ev := range f.events {
			if ev.Type == want {
				f.mu.Unlock()
				return ev
			}
		}
		f.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for %s event", want)
	return nil
}

func (f *fakeClient) count(eventType domain.EventType) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0
	for _, ev := range f.events {
		if ev.Type == eventType {
			n++
		}
	}
	return n
}

// settle gives the event loop time to deliver anything still queued, so
// absence assertions are meaningful
func settle() {
	time.Sleep(50 * time.Millisecond)
}

func newTestRace(t *testing.T, words ...string) (*RaceSession, *fakeClient, *fakeClient) {
	t.Helper()

	session := domain.NewSession("race-1", words, []domain.Participant{
		{ID: "p1", DisplayName: "Alice"},
		{ID: "p2", DisplayName: "Bob"},
	})

	race := NewRaceSession(session, testLogger())
	t.Cleanup(race.Close)

	c1 := &fakeClient{id: "p1"}
	c2 := &fakeClient{id: "p2"}
	race.RegisterClient("p1", c1)
	race.RegisterClient("p2", c2)

	return race, c1, c2
}

func TestMarkReadyBroadcastsOnAllReadyEdgeOnly(t *testing.T) {
	race, c1, c2 := newTestRace(t, "visit", "via")

	started, err := race.MarkReady("p1")
	if err != nil {
		t.Fatalf("MarkReady(p1): %v", err)
	}
	if started {
		t.Fatal("race started with one of two players ready")
	}

	started, err = race.MarkReady("p2")
	if err != nil {
		t.Fatalf("MarkReady(p2): %v", err)
	}
	if !started {
		t.Fatal("race did not start on the all-ready edge")
	}

	c1.waitFor(t, domain.EventGameReadySuccess)
	c2.waitFor(t, domain.EventGameReadySuccess)
	settle()

	if got := c1.count(domain.EventGameReadySuccess); got != 1 {
		t.Fatalf("gameReadySuccess broadcast %d times, want 1", got)
	}

	if _, err := race.MarkReady("p1"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("ready after start error = %v, want ErrInvalidTransition", err)
	}
	settle()
	if got := c1.count(domain.EventGameReadySuccess); got != 1 {
		t.Fatalf("rejected ready re-broadcast the start event, count = %d", got)
	}

	if race.GetStatus() != domain.StatusRunning {
		t.Fatalf("status = %s, want RUNNING", race.GetStatus())
	}
}

func TestUpdateTextExcludesSender(t *testing.T) {
	race, c1, c2 := newTestRace(t, "visit")

	if err := race.UpdateText("p1", "vi"); err != nil {
		t.Fatalf("UpdateText: %v", err)
	}

	ev := c2.waitFor(t, domain.EventGameUpdate)
	snapshot, ok := ev.Payload.(*domain.Session)
	if !ok {
		t.Fatalf("gameUpdate payload type %T, want *domain.Session", ev.Payload)
	}
	if snapshot.Players["p1"].CurrentText != "vi" {
		t.Fatalf("broadcast text = %q, want %q", snapshot.Players["p1"].CurrentText, "vi")
	}

	settle()
	if got := c1.count(domain.EventGameUpdate); got != 0 {
		t.Fatalf("sender received its own text update %d times", got)
	}
}

func TestCompleteWordBroadcastsUpdateThenGameOver(t *testing.T) {
	race, c1, c2 := newTestRace(t, "visit", "via")
	race.MarkReady("p1")
	race.MarkReady("p2")

	finished, err := race.CompleteWord("p1", 0)
	if err != nil {
		t.Fatalf("first CompleteWord: %v", err)
	}
	if finished {
		t.Fatal("race finished with one of two words completed")
	}
	c1.waitFor(t, domain.EventGameUpdate)
	c2.waitFor(t, domain.EventGameUpdate)

	finished, err = race.CompleteWord("p1", 0)
	if err != nil {
		t.Fatalf("second CompleteWord: %v", err)
	}
	if !finished {
		t.Fatal("completing the last word did not finish the race")
	}

	over1 := c1.waitFor(t, domain.EventGameOver)
	c2.waitFor(t, domain.EventGameOver)

	snapshot, ok := over1.Payload.(*domain.Session)
	if !ok {
		t.Fatalf("gameOver payload type %T, want *domain.Session", over1.Payload)
	}
	if snapshot.Status != domain.StatusFinished {
		t.Fatalf("gameOver snapshot status = %s, want FINISHED", snapshot.Status)
	}
	if snapshot.Players["p1"].WordIndex != 2 {
		t.Fatalf("winner wordIndex = %d, want 2", snapshot.Players["p1"].WordIndex)
	}

	if _, err := race.CompleteWord("p2", 0); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("completion after gameOver error = %v, want ErrInvalidTransition", err)
	}
	if err := race.UpdateText("p2", "v"); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("text update after gameOver error = %v, want ErrInvalidTransition", err)
	}
}

func TestSnapshotDoesNotAliasLiveState(t *testing.T) {
	race, _, _ := newTestRace(t, "visit", "via")
	race.MarkReady("p1")
	race.MarkReady("p2")

	before := race.Snapshot()
	race.CompleteWord("p1", 0)

	if before.Players["p1"].WordIndex != 0 {
		t.Fatal("snapshot mutated by a later word completion")
	}
}

func TestNotifyDisconnectSkipsDepartedPlayer(t *testing.T) {
	race, c1, c2 := newTestRace(t, "visit")

	race.UnregisterClient("p1")
	race.NotifyDisconnect("p1")

	ev := c2.waitFor(t, domain.EventPlayerDisconnected)
	payload, ok := ev.Payload.(*domain.PlayerDisconnectedPayload)
	if !ok {
		t.Fatalf("payload type %T, want *domain.PlayerDisconnectedPayload", ev.Payload)
	}
	if payload.ParticipantID != "p1" {
		t.Fatalf("departed participant = %s, want p1", payload.ParticipantID)
	}

	settle()
	if got := c1.count(domain.EventPlayerDisconnected); got != 0 {
		t.Fatal("departed player received its own disconnect notice")
	}
}
