package breakgame

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/go-cmp/cmp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/goleak"
)

func sampleSession() *Session {
	done := time.Date(2026, 10, 19, 9, 5, 0, 0, time.UTC)
	return &Session{
		UserID:      "asha",
		Active:      true,
		Score:       35,
		StartedAt:   time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		CompletedAt: &done,
		Game:        GameQuickMath,
		Level:       2,
		Secret:      77,
		Pending:     &Problem{A: 7, B: 9, Op: OpMul, Answer: 63},
	}
}

func exerciseStore(t *testing.T, st SessionStore) {
	t.Helper()
	ctx := context.Background()

	got, err := st.Load(ctx, "asha")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing session, got %+v", got)
	}

	want := sampleSession()
	if err := st.Save(ctx, want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if want.UpdatedAt.IsZero() {
		t.Fatal("Save should stamp UpdatedAt")
	}

	got, err = st.Load(ctx, "asha")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("session mismatch (-want +got):\n%s", diff)
	}

	got.Pending.Answer = 0
	again, err := st.Load(ctx, "asha")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if again.Pending.Answer != 63 {
		t.Fatal("mutating a loaded session must not change the stored one")
	}

	if err := st.Delete(ctx, "asha"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err = st.Load(ctx, "asha")
	if err != nil || got != nil {
		t.Fatalf("expected nil after delete, got %+v, %v", got, err)
	}
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	exerciseStore(t, NewRedisStore(client, RedisStoreConfig{}))
}

func TestRedisStoreExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	st := NewRedisStore(client, RedisStoreConfig{Prefix: "test", TTL: time.Minute})
	ctx := context.Background()
	if err := st.Save(ctx, sampleSession()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if ttl := mr.TTL("test:asha"); ttl != time.Minute {
		t.Fatalf("expected key ttl 1m, got %v", ttl)
	}

	mr.FastForward(time.Minute + time.Second)
	got, err := st.Load(ctx, "asha")
	if err != nil || got != nil {
		t.Fatalf("expected expired session to be gone, got %+v, %v", got, err)
	}
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("NewRedisClient failed: %v", err)
	}
	_ = client.Close()

	if _, err := NewRedisClient(context.Background(), "not a url"); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestMemoryStoreSweep(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	base := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

	st.now = func() time.Time { return base }
	idle := &Session{UserID: "idle", StartedAt: base.Add(-time.Hour)}
	running := &Session{UserID: "running", Active: true, StartedAt: base}
	for _, s := range []*Session{idle, running} {
		if err := st.Save(ctx, s); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}
	st.now = func() time.Time { return base.Add(2 * time.Minute) }
	if err := st.Save(ctx, &Session{UserID: "fresh", Active: true, StartedAt: base.Add(2 * time.Minute)}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if n := st.Sweep(base.Add(time.Minute)); n != 1 {
		t.Fatalf("expected only the idle session swept, removed %d", n)
	}
	if st.Len() != 2 {
		t.Fatalf("expected 2 sessions left, got %d", st.Len())
	}

	if n := st.Sweep(base.Add(Duration + time.Minute)); n != 1 {
		t.Fatalf("expected the abandoned running session swept, removed %d", n)
	}
}

func TestSweeperStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	st := NewMemoryStore()
	st.now = func() time.Time { return time.Now().Add(-time.Hour) }
	if err := st.Save(context.Background(), &Session{UserID: "old"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := StartSweeper(ctx, st, 10*time.Millisecond, time.Minute)

	deadline := time.Now().Add(2 * time.Second)
	for st.Len() > 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if st.Len() != 0 {
		t.Fatal("sweeper did not remove the stale session")
	}

	cancel()
	<-done
}
