package openstack

import (
	"context"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Limiter bounds concurrent and per-second OpenStack calls across all
// reconcilers sharing a Client.
type Limiter struct {
	sem  *semaphore.Weighted
	rate *rate.Limiter
}

// NewLimiter creates a limiter. maxConcurrent <= 0 means unbounded
// concurrency; rps <= 0 disables the request rate limit.
func NewLimiter(maxConcurrent int, rps float64) *Limiter {
	l := &Limiter{}
	if maxConcurrent > 0 {
		l.sem = semaphore.NewWeighted(int64(maxConcurrent))
	}
	if rps > 0 {
		burst := max(int(rps), 1)
		l.rate = rate.NewLimiter(rate.Limit(rps), burst)
	}
	return l
}

// Acquire blocks until a call may start. The returned func releases the
// concurrency slot and must be called exactly once.
func (l *Limiter) Acquire(ctx context.Context, service string) (func(), error) {
	start := time.Now()
	defer func() {
		rateLimitWait.WithLabelValues(service).Observe(time.Since(start).Seconds())
	}()

	if l.sem != nil {
		if err := l.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}
	if l.rate != nil {
		if err := l.rate.Wait(ctx); err != nil {
			if l.sem != nil {
				l.sem.Release(1)
			}
			return nil, err
		}
	}
	return func() {
		if l.sem != nil {
			l.sem.Release(1)
		}
	}, nil
}
