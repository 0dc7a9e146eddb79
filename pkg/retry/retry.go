package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config holds retry configuration
type Config struct {
	MaxAttempts   int
	Delay         time.Duration
	BackoffFactor float64
	MaxDelay      time.Duration
}

// FixedDelay returns a configuration that retries up to maxAttempts times
// with the same delay between attempts. This is the policy used for model
// rotation against quota-limited upstreams: a short pause, then the next
// candidate, never hammering the one that just ran out.
func FixedDelay(maxAttempts int, delay time.Duration) Config {
	return Config{
		MaxAttempts:   maxAttempts,
		Delay:         delay,
		BackoffFactor: 1.0,
		MaxDelay:      delay,
	}
}

// DefaultConfig returns an exponential backoff configuration
func DefaultConfig() Config {
	return Config{
		MaxAttempts:   5,
		Delay:         100 * time.Millisecond,
		BackoffFactor: 2.0,
		MaxDelay:      10 * time.Second,
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks an error as non-retryable. Do stops immediately and
// returns the wrapped error unchanged.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do executes fn until it succeeds, returns a permanent error, the attempt
// budget is spent, or the context is cancelled. fn receives the zero-based
// attempt number.
func Do(ctx context.Context, cfg Config, fn func(attempt int) error) error {
	var lastErr error
	delay := cfg.Delay

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt, ctx.Err(), lastErr)
			}
			return fmt.Errorf("retry aborted: %w", ctx.Err())
		default:
		}

		err := fn(attempt)
		if err == nil {
			return nil
		}

		var perm *permanentError
		if errors.As(err, &perm) {
			return perm.err
		}

		lastErr = err

		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry aborted after %d attempts: %w (last error: %v)", attempt+1, ctx.Err(), lastErr)
		case <-time.After(delay):
		}

		if cfg.BackoffFactor > 1 {
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			if cfg.MaxDelay > 0 && delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}

	return fmt.Errorf("max retry attempts (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}
