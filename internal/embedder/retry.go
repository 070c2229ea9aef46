package embedder

import (
	"context"
	"time"
)

// RetryConfig bounds the exponential backoff applied to provider API calls.
// Each API-backed provider installs its own config at construction.
type RetryConfig struct {
	Attempts   int
	BaseDelay  time.Duration
	MaxDelay   time.Duration
	Multiplier float64
}

// withRetry runs fn until it succeeds or the attempt budget is spent,
// growing the delay between attempts. Context cancellation cuts the loop
// short with the context's error.
func withRetry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	delay := cfg.BaseDelay
	for attempt := 1; ; attempt++ {
		out, err := fn()
		if err == nil {
			return out, nil
		}
		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if attempt >= cfg.Attempts {
			return zero, err
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}
}
