package worker

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper evicts idle views.
type Sweeper interface {
	Sweep() int
}

// StartViewSweeper runs Sweep every interval until ctx is cancelled.
// The returned channel is closed once the loop has exited.
func StartViewSweeper(ctx context.Context, sweeper Sweeper, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := sweeper.Sweep(); n > 0 {
					logger.Info("evicted idle views", zap.Int("count", n))
				}
			}
		}
	}()
	return done
}
