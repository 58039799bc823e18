package httputil

import (
	"context"
	"errors"
	"time"
)

// RetryableError marks a transient failure. [Retry] repeats only these.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable wraps err as a RetryableError. Retryable(nil) is nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry schedule.
type Backoff struct {
	Attempts int           // total calls, at least 1
	Delay    time.Duration // wait before the second call
	MaxDelay time.Duration // cap on a single wait, 0 for none
}

// DefaultBackoff is used by RetryWithBackoff.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 8 * time.Second}

// wait returns the pause after the n-th failed call (0-based).
func (b Backoff) wait(n int) time.Duration {
	d := b.Delay << n
	if b.MaxDelay > 0 && (d > b.MaxDelay || d <= 0) {
		d = b.MaxDelay
	}
	return d
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is returned; cancellation while waiting
// returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	var err error
	for n := 0; n < attempts; n++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if n == attempts-1 {
			break
		}
		t := time.NewTimer(b.wait(n))
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
	}
	return err
}

// Retry calls fn up to attempts times, doubling delay after each failure.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	return Backoff{Attempts: attempts, Delay: delay}.Do(ctx, fn)
}

// RetryWithBackoff is Retry with DefaultBackoff.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Do(ctx, fn)
}
