package frame

import (
	"context"
	"time"
)

// Run pumps loop from a wall-clock ticker until ctx is done or done reports
// true after a pump. It is the headless host; the TUI pumps from tick messages.
func Run(ctx context.Context, loop *Loop, interval time.Duration, done func() bool) error {
	if interval <= 0 {
		interval = NominalInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case now := <-ticker.C:
			loop.Pump(now)
			if done != nil && done() {
				return nil
			}
		}
	}
}
