// Package simulate stands in for the network latency of the demo backends.
package simulate

import (
	"context"
	"time"
)

// Latency blocks for d or until ctx is done, whichever comes first.
func Latency(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
