package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Backoff doubles a delay from Base up to Max. A zero Base means no wait.
type Backoff struct {
	Base time.Duration
	Max  time.Duration
}

// Delay returns the wait before the given zero-based retry.
func (b Backoff) Delay(attempt int) time.Duration {
	if b.Base <= 0 {
		return 0
	}
	d := b.Base
	for i := 0; i < attempt; i++ {
		d *= 2
		if b.Max > 0 && d >= b.Max {
			return b.Max
		}
	}
	if b.Max > 0 && d > b.Max {
		return b.Max
	}
	return d
}

// Delay is shorthand for Backoff{Base: base, Max: maxDelay}.Delay(attempt).
func Delay(attempt int, base, maxDelay time.Duration) time.Duration {
	return Backoff{Base: base, Max: maxDelay}.Delay(attempt)
}

type settings struct {
	attempts int
	backoff  Backoff
}

// Option configures [Do].
type Option func(*settings)

// Attempts sets how many times the operation runs at most, including the
// first call.
func Attempts(n int) Option {
	return func(s *settings) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithBackoff sets the wait between attempts. Without it retries are
// immediate.
func WithBackoff(b Backoff) Option {
	return func(s *settings) { s.backoff = b }
}

// Do calls op until it succeeds, fails with an error marked [Fatal], or
// runs out of attempts. A fatal error is returned without the marker; the
// last error is returned as is.
func Do(ctx context.Context, op func(context.Context) error, opts ...Option) error {
	s := settings{attempts: 3}
	for _, opt := range opts {
		opt(&s)
	}

	var err error
	for attempt := 0; attempt < s.attempts; attempt++ {
		if attempt > 0 {
			if err := wait(ctx, s.backoff.Delay(attempt-1)); err != nil {
				return fmt.Errorf("gave up after %d attempts: %w", attempt, err)
			}
		}
		err = op(ctx)
		if err == nil {
			return nil
		}
		var fatal *FatalError
		if errors.As(err, &fatal) {
			return fatal.Err
		}
	}
	return err
}

func wait(ctx context.Context, d time.Duration) error {
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

// FatalError stops [Do] from retrying.
type FatalError struct {
	Err error
}

func (e *FatalError) Error() string { return e.Err.Error() }

func (e *FatalError) Unwrap() error { return e.Err }

// Fatal marks err as not worth retrying. Fatal(nil) is nil.
func Fatal(err error) error {
	if err == nil {
		return nil
	}
	return &FatalError{Err: err}
}

// IsFatal reports whether err was marked with [Fatal].
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
