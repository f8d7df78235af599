package entsoe

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"gridwatch/internal/metrics"
)

// RateLimiter is the single chokepoint between the fetch pipeline and the
// external API quota. Acquire blocks until both a free in-flight slot and the
// minimum inter-request spacing are available. One instance is shared across
// all concurrent zone fetches of a run.
type RateLimiter struct {
	slots   chan struct{}
	limiter *rate.Limiter
}

// NewRateLimiter builds a limiter pacing requests at requestsPerMinute with
// at most maxInFlight requests outstanding at once.
func NewRateLimiter(requestsPerMinute, maxInFlight int) *RateLimiter {
	spacing := time.Minute / time.Duration(requestsPerMinute)
	return &RateLimiter{
		slots:   make(chan struct{}, maxInFlight),
		limiter: rate.NewLimiter(rate.Every(spacing), 1),
	}
}

// Acquire blocks until a permit is available or ctx is done. The returned
// permit must be released; callers defer Release immediately.
func (rl *RateLimiter) Acquire(ctx context.Context) (*Permit, error) {
	select {
	case rl.slots <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if rl.limiter.Tokens() < 1 {
		metrics.RecordRateLimitWait()
	}
	if err := rl.limiter.Wait(ctx); err != nil {
		<-rl.slots
		return nil, err
	}

	return &Permit{rl: rl}, nil
}

// InFlight reports the number of currently held permits.
func (rl *RateLimiter) InFlight() int {
	return len(rl.slots)
}

// Permit is a scoped acquisition of the rate limiter. Release is safe to call
// more than once; only the first call frees the slot.
type Permit struct {
	rl   *RateLimiter
	once sync.Once
}

// Release returns the in-flight slot to the limiter.
func (p *Permit) Release() {
	p.once.Do(func() {
		<-p.rl.slots
	})
}
