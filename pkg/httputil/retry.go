package httputil

import (
	"context"
	"errors"
	"time"
)

// maxDelay caps the exponential backoff. Chat-completions outages longer
// than this are better surfaced to the caller than waited out.
const maxDelay = 30 * time.Second

// RetryableError marks an error as transient so [Retry] will attempt the
// operation again. The analyzer wraps network failures, 5xx responses,
// and 429 rate limits this way; auth and validation errors stay bare and
// fail fast.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retry executes fn up to attempts times, doubling the delay after each
// failed attempt (capped at 30s). Only errors wrapped in [RetryableError]
// are retried; anything else is returned immediately. Returns the last
// error when every attempt fails, or ctx.Err() when cancelled mid-wait.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !isRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = min(delay*2, maxDelay)
			}
		}
	}
	return lastErr
}

// RetryWithBackoff runs fn with the defaults used for LLM requests:
// 3 attempts starting at 1 second, doubling each retry.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

func isRetryable(err error) bool {
	return errors.As(err, new(*RetryableError))
}
