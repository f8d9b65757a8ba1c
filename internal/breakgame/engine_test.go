package breakgame

import (
	"errors"
	"sync"
	"testing"
	"time"
)

// queueRand returns queued values in order and 0 once the queue is empty.
// Values at or above n are clamped to n-1.
type queueRand struct {
	mu   sync.Mutex
	vals []int
}

func (q *queueRand) push(vals ...int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.vals = append(q.vals, vals...)
}

func (q *queueRand) IntN(n int) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.vals) == 0 {
		return 0
	}
	v := q.vals[0]
	q.vals = q.vals[1:]
	if v >= n {
		v = n - 1
	}
	return v
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestEngine() (*Engine, *queueRand, *fakeClock) {
	rng := &queueRand{}
	clock := newFakeClock()
	return NewEngineWith(rng, clock.now), rng, clock
}

func TestStartResetsSession(t *testing.T) {
	e, rng, clock := newTestEngine()
	rng.push(9)

	s := e.Start("asha")
	if !s.Active || s.Score != 0 || s.Level != 1 || s.Game != GameNone || s.Pending != nil {
		t.Fatalf("unexpected fresh session: %+v", s)
	}
	if s.Secret != 10 {
		t.Fatalf("expected secret 10, got %d", s.Secret)
	}
	if !s.StartedAt.Equal(clock.now()) {
		t.Fatalf("expected start time %v, got %v", clock.now(), s.StartedAt)
	}
	if got := e.Remaining(s); got != 300 {
		t.Fatalf("expected 300 seconds remaining, got %d", got)
	}
}

func TestCountdownExpires(t *testing.T) {
	e, _, clock := newTestEngine()
	s := e.Start("asha")
	if err := e.Select(s, GameNumberGuess); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	s.Score = 20

	clock.advance(500 * time.Millisecond)
	if got := e.Remaining(s); got != 300 {
		t.Fatalf("partial seconds should not count, got %d", got)
	}

	clock.advance(299 * time.Second)
	if e.Refresh(s) {
		t.Fatal("break should still be active at 299.5s")
	}
	if got := e.Remaining(s); got != 1 {
		t.Fatalf("expected 1 second remaining, got %d", got)
	}

	clock.advance(500 * time.Millisecond)
	if !e.Refresh(s) {
		t.Fatal("expected Refresh to report expiry at 300s")
	}
	if s.Active {
		t.Fatal("expected session to be idle")
	}
	if e.Refresh(s) {
		t.Fatal("expiry should only be reported once")
	}

	snap := e.Snapshot(s)
	if snap.Active || !snap.Completed || snap.Notice != CompletionNotice || snap.Remaining != 0 {
		t.Fatalf("unexpected snapshot after expiry: %+v", snap)
	}
	if snap.Score != 20 {
		t.Fatalf("expected final score to be kept, got %d", snap.Score)
	}
}

func TestActionsAfterExpiryAreNoOps(t *testing.T) {
	e, rng, clock := newTestEngine()
	s := e.Start("asha")
	if err := e.Select(s, GameRPS); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	clock.advance(Duration + time.Second)
	rng.push(2)

	before := *s
	if _, err := e.PlayRound(s, Rock); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
	if _, err := e.SubmitGuess(s, 1); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
	if _, err := e.CurrentProblem(s); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
	if err := e.Select(s, GameQuickMath); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
	if s.Score != before.Score || s.Game != before.Game || s.Level != before.Level {
		t.Fatalf("session changed after expiry: before=%+v after=%+v", before, *s)
	}

	s = e.Start("asha")
	if !s.Active || s.Score != 0 {
		t.Fatalf("restart should give a fresh session: %+v", s)
	}
}

func TestStop(t *testing.T) {
	e, _, _ := newTestEngine()
	s := e.Start("asha")
	e.Stop(s)

	if s.Active {
		t.Fatal("expected stopped session to be idle")
	}
	snap := e.Snapshot(s)
	if snap.Completed {
		t.Fatal("stopped break should not report completion")
	}
	if err := e.Select(s, GameRPS); !errors.Is(err, ErrInactive) {
		t.Fatalf("expected ErrInactive, got %v", err)
	}
	e.Stop(nil)
}

func TestSelectClearsPendingProblemOnly(t *testing.T) {
	e, rng, clock := newTestEngine()
	s := e.Start("asha")

	if err := e.Select(s, GameQuickMath); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	rng.push(0, 0, 0)
	if _, err := e.CurrentProblem(s); err != nil {
		t.Fatalf("CurrentProblem failed: %v", err)
	}
	s.Score = 15
	s.Level = 3
	clock.advance(time.Minute)

	if err := e.Select(s, GameQuickMath); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if s.Pending == nil {
		t.Fatal("reselecting the same game should keep the pending problem")
	}

	if err := e.Select(s, GameRPS); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if s.Pending != nil {
		t.Fatal("switching games should clear the pending problem")
	}
	if s.Score != 15 || s.Level != 3 || e.Remaining(s) != 240 {
		t.Fatalf("switching games should keep score, level and countdown: %+v remaining=%d", s, e.Remaining(s))
	}
}

func TestSelectRejectsUnknownGame(t *testing.T) {
	e, _, _ := newTestEngine()
	s := e.Start("asha")
	if err := e.Select(s, Game("chess")); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}

func TestActionsRequireSelectedGame(t *testing.T) {
	e, _, _ := newTestEngine()
	s := e.Start("asha")

	if _, err := e.SubmitGuess(s, 1); !errors.Is(err, ErrGameNotSelected) {
		t.Fatalf("expected ErrGameNotSelected, got %v", err)
	}
	if _, err := e.SubmitAnswer(s, 1); !errors.Is(err, ErrGameNotSelected) {
		t.Fatalf("expected ErrGameNotSelected, got %v", err)
	}
	if _, err := e.PlayRound(s, Rock); !errors.Is(err, ErrGameNotSelected) {
		t.Fatalf("expected ErrGameNotSelected, got %v", err)
	}
}

func TestSnapshotOfNilSession(t *testing.T) {
	e, _, _ := newTestEngine()
	snap := e.Snapshot(nil)
	if snap.Active || snap.Completed || snap.Remaining != 0 {
		t.Fatalf("unexpected snapshot for nil session: %+v", snap)
	}
}

func TestParseGame(t *testing.T) {
	for _, g := range []Game{GameNone, GameNumberGuess, GameQuickMath, GameRPS} {
		if got, err := ParseGame(string(g)); err != nil || got != g {
			t.Fatalf("ParseGame(%q) = %q, %v", g, got, err)
		}
	}
	if _, err := ParseGame("tetris"); !errors.Is(err, ErrUnknownGame) {
		t.Fatalf("expected ErrUnknownGame, got %v", err)
	}
}
