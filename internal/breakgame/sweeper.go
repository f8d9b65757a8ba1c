package breakgame

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper is a store that can drop stale sessions. RedisStore relies on key
// expiry instead.
type Sweeper interface {
	Sweep(cutoff time.Time) int
}

// StartSweeper runs a background goroutine that periodically removes
// sessions idle for longer than retention. The returned channel is closed
// once the goroutine has exited.
func StartSweeper(ctx context.Context, s Sweeper, interval, retention time.Duration) <-chan struct{} {
	done := make(chan struct{})
	ticker := time.NewTicker(interval)
	go func() {
		defer close(done)
		defer ticker.Stop()
		slog.Info("Break sweeper started", "interval", interval, "retention", retention)

		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(time.Now().Add(-retention)); n > 0 {
					slog.Info("Break sweeper removed stale sessions", "count", n)
				}
			case <-ctx.Done():
				slog.Info("Break sweeper shutting down", "reason", ctx.Err())
				return
			}
		}
	}()
	return done
}
