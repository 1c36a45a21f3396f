// Package retry runs remote operations with exponential backoff and
// jitter.
//
// Only errors classified as transient by the remote package are retried.
// A missing record or any other error ends the execution after the first
// attempt.
package retry

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/gnames/accmeta/pkg/remote"
)

// Sleeper pauses between attempts. It must return early with an error when
// ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// Policy configures Execute.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay after the first failed attempt. It doubles
	// with every following attempt.
	BaseDelay time.Duration

	// MaxJitter is the upper bound of a random delay added to every wait.
	MaxJitter time.Duration

	// Sleep is used for waiting, defaults to a context-aware timer.
	Sleep Sleeper

	// Rand returns a number in [0, 1), defaults to math/rand/v2.
	Rand func() float64
}

// DefaultPolicy returns 5 attempts, 3s base delay and up to 2s jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		BaseDelay:   3 * time.Second,
		MaxJitter:   2 * time.Second,
	}
}

// ExhaustedError is returned when every attempt failed with a transient
// error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("gave up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Delay returns the wait before the attempt that follows failed attempt
// number attempt (1-based): BaseDelay*2^(attempt-1) plus jitter.
func Delay(p Policy, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	res := p.BaseDelay << (attempt - 1)
	if p.MaxJitter > 0 {
		rnd := p.Rand
		if rnd == nil {
			rnd = rand.Float64
		}
		res += time.Duration(rnd() * float64(p.MaxJitter))
	}
	return res
}

// Execute calls op until it succeeds, fails permanently or the attempts
// are exhausted.
func Execute[T any](
	ctx context.Context,
	p Policy,
	op func(context.Context) (T, error),
) (T, error) {
	var zero T
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = ctxSleep
	}

	var err error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		var res T
		res, err = op(ctx)
		if err == nil {
			return res, nil
		}
		if !remote.IsTransient(err) {
			return zero, err
		}
		if attempt == p.MaxAttempts {
			break
		}

		d := Delay(p, attempt)
		slog.Debug("Retrying remote call",
			"attempt", attempt, "delay", d.String(), "error", err)
		if serr := sleep(ctx, d); serr != nil {
			return zero, serr
		}
	}
	return zero, &ExhaustedError{Attempts: p.MaxAttempts, Last: err}
}

func ctxSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
