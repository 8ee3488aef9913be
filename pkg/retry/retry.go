package retry

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 2 * time.Second
)

// Config controls how Do schedules attempts. Zero values fall back to the
// package defaults.
type Config struct {
	MaxAttempts  int
	InitialDelay time.Duration
}

// RateLimitError marks an error as a provider throttling response. Wire
// clients wrap their SDK errors with RateLimit when they can classify the
// status code precisely; IsRateLimit falls back to message sniffing for
// errors that arrive untyped.
type RateLimitError struct {
	Err error
}

func (e *RateLimitError) Error() string { return e.Err.Error() }
func (e *RateLimitError) Unwrap() error { return e.Err }

// RateLimit wraps err so IsRateLimit recognizes it. A nil err returns nil.
func RateLimit(err error) error {
	if err == nil {
		return nil
	}
	return &RateLimitError{Err: err}
}

func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}
	var rl *RateLimitError
	if errors.As(err, &rl) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "resource_exhausted") ||
		strings.Contains(msg, "rate limit") ||
		strings.Contains(msg, "rate_limit") ||
		strings.Contains(msg, "quota")
}

// Do runs op up to cfg.MaxAttempts times. Only rate-limit errors are
// retried; any other failure propagates unchanged after the first attempt.
// The delay before attempt n+1 is InitialDelay * 2^(n-1), with no jitter.
// ctx is polled before every attempt, including the first: when it is
// already done, op is never invoked and ctx.Err() is returned so callers
// can distinguish cancellation from provider failures.
func Do[T any](ctx context.Context, cfg Config, op func() (T, error)) (T, error) {
	var zero T

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	delay := cfg.InitialDelay
	if delay <= 0 {
		delay = DefaultInitialDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRateLimit(err) || attempt == maxAttempts {
			return zero, err
		}

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}

	return zero, lastErr
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
