package app

import (
	"context"
	"time"

	"github.com/five82/statebox/internal/ui"
)

// tickInterval clamps interval to the fastest rate the UI accepts.
func tickInterval(interval time.Duration) time.Duration {
	if interval <= 0 {
		return 0
	}
	if interval < ui.MinTickInterval {
		return ui.MinTickInterval
	}
	return interval
}

// StartTicker launches a background goroutine that emits the time at a fixed
// cadence until ctx is cancelled, then closes the channel. Ticks are dropped
// while the receiver is busy. A non-positive interval returns nil.
func StartTicker(ctx context.Context, interval time.Duration) <-chan time.Time {
	interval = tickInterval(interval)
	if interval == 0 {
		return nil
	}
	out := make(chan time.Time, 1)
	go func() {
		defer close(out)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				select {
				case out <- now:
				default:
				}
			}
		}
	}()
	return out
}
