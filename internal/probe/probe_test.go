package probe

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"go.uber.org/goleak"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakePinger struct {
	mu  sync.Mutex
	err error
}

func (f *fakePinger) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

func (f *fakePinger) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func TestCheckOnceTracksDatabase(t *testing.T) {
	db := &fakePinger{}
	p := New(db, time.Hour, time.Second)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := p.NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := Check(ctx, lis.Addr().String(), ServiceName)
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING before the first probe, got %v", got)
	}

	if status := p.CheckOnce(ctx); status != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING, got %v", status)
	}
	got, err = Check(ctx, lis.Addr().String(), "")
	if err != nil || got != healthpb.HealthCheckResponse_SERVING {
		t.Fatalf("expected SERVING from server, got %v, %v", got, err)
	}

	db.fail(errors.New("disk gone"))
	if status := p.CheckOnce(ctx); status != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING, got %v", status)
	}
	got, err = Check(ctx, lis.Addr().String(), ServiceName)
	if err != nil || got != healthpb.HealthCheckResponse_NOT_SERVING {
		t.Fatalf("expected NOT_SERVING from server, got %v, %v", got, err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	p := New(&fakePinger{}, 5*time.Millisecond, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		p.Run(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
