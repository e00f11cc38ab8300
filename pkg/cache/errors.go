package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a remote backend that could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrUnknownBackend is returned by [Open] for a backend name it does not know.
	ErrUnknownBackend = errors.New("unknown cache backend")
)

// RetryableError marks a failure worth another attempt, such as a Redis
// server that is still starting.
type RetryableError struct{ Err error }

// Retryable wraps err so [Backoff.Retry] tries again. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err, or anything it wraps, is a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff spaces out attempts: Delay before the second attempt, doubling
// after each further failure.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// DefaultBackoff is used for the Redis connection check.
var DefaultBackoff = Backoff{Attempts: 4, Delay: 250 * time.Millisecond}

// RetryWithBackoff runs fn under [DefaultBackoff].
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return DefaultBackoff.Retry(ctx, fn)
}

// Retry calls fn until it succeeds, returns an error that is not
// retryable, or runs out of attempts. The last error is returned as is.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt >= b.Attempts {
			return err
		}
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
