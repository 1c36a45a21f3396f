// Package ratelimit provides request budgets shared by concurrent workers.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter admits one request at a time according to a budget.
type Limiter interface {
	// Wait blocks until the request is admitted or ctx is done.
	Wait(ctx context.Context) error
	// Reserve returns how long a request would wait now, without
	// taking its place.
	Reserve() time.Duration
}

// TokenBucket allows bursts up to the bucket size and refills at a fixed
// rate.
type TokenBucket struct {
	mu         sync.Mutex
	rate       float64
	burst      int
	tokens     float64
	lastUpdate time.Time
}

// NewTokenBucket creates a bucket that refills perSec tokens per second.
// Non-positive arguments are replaced with 1.
func NewTokenBucket(perSec float64, burst int) *TokenBucket {
	if perSec <= 0 {
		perSec = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &TokenBucket{
		rate:       perSec,
		burst:      burst,
		tokens:     float64(burst),
		lastUpdate: time.Now(),
	}
}

func (tb *TokenBucket) Wait(ctx context.Context) error {
	for {
		tb.mu.Lock()
		tb.refill()
		if tb.tokens >= 1.0 {
			tb.tokens--
			tb.mu.Unlock()
			return nil
		}
		wait := tb.deficit()
		tb.mu.Unlock()

		if err := sleep(ctx, wait); err != nil {
			return err
		}
	}
}

func (tb *TokenBucket) Reserve() time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.refill()
	if tb.tokens >= 1.0 {
		return 0
	}
	return tb.deficit()
}

// deficit must be called with the lock held.
func (tb *TokenBucket) deficit() time.Duration {
	missing := 1.0 - tb.tokens
	return time.Duration(missing/tb.rate*float64(time.Second)) + time.Nanosecond
}

// refill must be called with the lock held.
func (tb *TokenBucket) refill() {
	now := time.Now()
	elapsed := now.Sub(tb.lastUpdate)
	if elapsed <= 0 {
		return
	}
	tb.tokens += elapsed.Seconds() * tb.rate
	if tb.tokens > float64(tb.burst) {
		tb.tokens = float64(tb.burst)
	}
	tb.lastUpdate = now
}

// FixedDelay keeps at least delay between two admitted requests.
type FixedDelay struct {
	mu    sync.Mutex
	delay time.Duration
	next  time.Time
}

// NewFixedDelay creates a FixedDelay gate. Zero delay admits everything.
func NewFixedDelay(delay time.Duration) *FixedDelay {
	if delay < 0 {
		delay = 0
	}
	return &FixedDelay{delay: delay}
}

// Wait reserves the next free slot and sleeps until it comes. Slots are
// reserved in the order Wait is called.
func (fd *FixedDelay) Wait(ctx context.Context) error {
	fd.mu.Lock()
	now := time.Now()
	slot := fd.next
	if slot.Before(now) {
		slot = now
	}
	fd.next = slot.Add(fd.delay)
	fd.mu.Unlock()

	return sleep(ctx, slot.Sub(now))
}

func (fd *FixedDelay) Reserve() time.Duration {
	fd.mu.Lock()
	defer fd.mu.Unlock()

	wait := time.Until(fd.next)
	if wait < 0 {
		return 0
	}
	return wait
}

func sleep(ctx context.Context, d time.Duration) error {
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
