// Package probe exposes database health over the standard gRPC health service.
package probe

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the health service name reported next to the server-wide "".
const ServiceName = "study-companion"

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Prober periodically pings the database and publishes the result.
type Prober struct {
	db       Pinger
	health   *health.Server
	interval time.Duration
	timeout  time.Duration
}

// New creates a prober. Status is NOT_SERVING until the first check.
func New(db Pinger, interval, timeout time.Duration) *Prober {
	p := &Prober{
		db:       db,
		health:   health.NewServer(),
		interval: interval,
		timeout:  timeout,
	}
	p.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return p
}

// Register adds the health service to a gRPC server.
func (p *Prober) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, p.health)
}

// NewServer creates a gRPC server that serves only the health service.
func (p *Prober) NewServer() *grpc.Server {
	s := grpc.NewServer()
	p.Register(s)
	return s
}

func (p *Prober) set(status healthpb.HealthCheckResponse_ServingStatus) {
	p.health.SetServingStatus("", status)
	p.health.SetServingStatus(ServiceName, status)
}

// CheckOnce pings the database and publishes the resulting status.
func (p *Prober) CheckOnce(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	status := healthpb.HealthCheckResponse_SERVING
	if err := p.db.Ping(ctx); err != nil {
		slog.Warn("Database probe failed", "error", err)
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}
	p.set(status)
	return status
}

// Run probes until ctx is cancelled, then marks everything NOT_SERVING.
func (p *Prober) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.CheckOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			p.health.Shutdown()
			slog.Info("Health probe stopped")
			return
		case <-ticker.C:
			p.CheckOnce(ctx)
		}
	}
}
