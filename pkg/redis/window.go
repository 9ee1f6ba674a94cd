package redis

import (
	"context"
	"fmt"
	"time"
)

// Window is a fixed-window counter right after one attempt was counted.
type Window struct {
	Count   int64
	Limit   int64
	ResetIn time.Duration
}

// Allowed reports whether the counted attempt fits the limit. A non-positive limit never blocks.
func (w Window) Allowed() bool {
	return w.Limit <= 0 || w.Count <= w.Limit
}

func (w Window) Remaining() int64 {
	if w.Limit <= 0 || w.Count >= w.Limit {
		return 0
	}
	return w.Limit - w.Count
}

// CountAttempt increments the counter for scope and starts its window on the first attempt.
// A counter found without an expiry (the process died between INCR and EXPIRE) gets one again so
// a scope can never be locked out for good.
func (c *Client) CountAttempt(ctx context.Context, scope string, limit int64, window time.Duration) (Window, error) {
	if c.cmd == nil {
		return Window{}, errNotConnected
	}
	key := c.keys.Throttle(scope)

	count, err := c.cmd.Incr(ctx, key).Result()
	if err != nil {
		return Window{}, fmt.Errorf("incr %s: %w", key, err)
	}
	w := Window{Count: count, Limit: limit, ResetIn: window}
	if window <= 0 {
		return w, nil
	}
	if count == 1 {
		if err := c.cmd.Expire(ctx, key, window).Err(); err != nil {
			return w, fmt.Errorf("expire %s: %w", key, err)
		}
		return w, nil
	}

	ttl, err := c.cmd.TTL(ctx, key).Result()
	if err != nil {
		return w, fmt.Errorf("ttl %s: %w", key, err)
	}
	if ttl > 0 {
		w.ResetIn = ttl
		return w, nil
	}
	if err := c.cmd.Expire(ctx, key, window).Err(); err != nil {
		return w, fmt.Errorf("expire %s: %w", key, err)
	}
	return w, nil
}
