package goSession

import (
	"context"
	"fmt"
	"time"
)

// Sweep deletes every session row whose expiry has passed and returns the
// count. It is idempotent and safe to run alongside live traffic.
func (e *Engine) Sweep(ctx context.Context) (int64, error) {
	if e == nil {
		return 0, ErrEngineNotReady
	}
	n, err := e.store.SweepExpired(ctx, e.now())
	if err != nil {
		e.metricInc(MetricStoreError)
		return n, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if n > 0 {
		e.metrics.Add(MetricSweepRemoved, uint64(n))
	}
	return n, nil
}

// StartSweeper runs Sweep every Sweep.Interval until ctx is done. The
// returned channel closes once the goroutine has exited. A zero interval
// starts nothing and returns a closed channel.
func (e *Engine) StartSweeper(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})
	if e == nil || e.config.Sweep.Interval <= 0 {
		close(done)
		return done
	}

	interval := e.config.Sweep.Interval
	go func() {
		defer close(done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		e.logger.Info("session sweeper started", "interval", interval)
		for {
			select {
			case <-ctx.Done():
				e.logger.Info("session sweeper stopped")
				return
			case <-ticker.C:
				n, err := e.Sweep(ctx)
				if err != nil {
					e.logger.Error("session sweep failed", "error", err)
					continue
				}
				if n > 0 {
					e.logger.Info("expired sessions removed", "count", n)
				}
			}
		}
	}()
	return done
}
