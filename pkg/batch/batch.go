// Package batch resolves lists of accessions and aggregates run
// statistics.
//
// By default accessions are resolved one by one with a fixed pause after
// each of them. With more than one job, accessions are resolved by a
// bounded pool of workers, a shared gate spaces their starts, and records
// are still emitted in input order.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/ratelimit"
	"github.com/gnames/accmeta/pkg/record"
	"golang.org/x/sync/errgroup"
)

// Resolver resolves one accession.
type Resolver interface {
	Resolve(ctx context.Context, acc accession.Accession) record.Outcome
}

// Cache keeps records resolved by earlier runs.
type Cache interface {
	// Get returns a finalized record of acc if it is cached.
	Get(ctx context.Context, acc accession.Accession) (record.MetadataRecord, bool)
	// Put stores a finalized record.
	Put(ctx context.Context, rec record.MetadataRecord) error
}

// Progress is notified after every accession.
type Progress interface {
	Increment()
}

// Sleeper pauses between accessions.
type Sleeper func(ctx context.Context, d time.Duration) error

// Summary contains statistics of a run.
type Summary struct {
	Processed          int           `json:"processed"`
	WithCoordinates    int           `json:"withCoordinates"`
	WithoutCoordinates int           `json:"withoutCoordinates"`
	Failed             int           `json:"failed"`
	Cached             int           `json:"cached"`
	Duration           time.Duration `json:"-"`
	DurationSec        float64       `json:"durationSec"`
}

func (s *Summary) add(rec record.MetadataRecord, failed, cached bool) {
	s.Processed++
	if rec.HasCoords() {
		s.WithCoordinates++
	} else {
		s.WithoutCoordinates++
	}
	if failed {
		s.Failed++
	}
	if cached {
		s.Cached++
	}
}

// Runner resolves lists of accessions.
type Runner struct {
	resolver Resolver
	jobs     int
	delay    time.Duration
	sleep    Sleeper
	gate     ratelimit.Limiter
	cache    Cache
	progress Progress
	onRecord func(record.MetadataRecord) error
}

// Option configures Runner.
type Option func(*Runner)

// OptJobs sets the number of accessions resolved at the same time.
func OptJobs(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.jobs = n
		}
	}
}

// OptInterAccessionDelay sets the pause after each accession. In
// concurrent mode it is the minimal interval between starts of two
// accessions.
func OptInterAccessionDelay(d time.Duration) Option {
	return func(r *Runner) {
		if d >= 0 {
			r.delay = d
		}
	}
}

// OptSleeper replaces the pause implementation.
func OptSleeper(s Sleeper) Option {
	return func(r *Runner) {
		if s != nil {
			r.sleep = s
		}
	}
}

// OptGate sets the limiter that admits accessions in concurrent mode.
func OptGate(l ratelimit.Limiter) Option {
	return func(r *Runner) {
		r.gate = l
	}
}

// OptCache enables cached records.
func OptCache(c Cache) Option {
	return func(r *Runner) {
		r.cache = c
	}
}

// OptProgress sets a progress reporter.
func OptProgress(p Progress) Option {
	return func(r *Runner) {
		r.progress = p
	}
}

// OptOnRecord sets a function that receives records in input order as
// soon as they are ready. An error stops the run.
func OptOnRecord(fn func(record.MetadataRecord) error) Option {
	return func(r *Runner) {
		r.onRecord = fn
	}
}

// New creates a Runner.
func New(res Resolver, opts ...Option) *Runner {
	r := &Runner{
		resolver: res,
		jobs:     1,
		delay:    500 * time.Millisecond,
		sleep:    ctxSleep,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.gate == nil {
		r.gate = ratelimit.NewFixedDelay(r.delay)
	}
	return r
}

type result struct {
	rec    record.MetadataRecord
	failed bool
	cached bool
}

// Run resolves accs and returns one record per accession in input order.
// When ctx is canceled, it returns records finished so far together with
// the context error.
func (r *Runner) Run(
	ctx context.Context,
	accs []accession.Accession,
) ([]record.MetadataRecord, Summary, error) {
	var summary Summary
	if len(accs) == 0 {
		return nil, summary, accession.ErrEmptyList
	}

	start := time.Now()
	var res []record.MetadataRecord
	var err error
	if r.jobs <= 1 {
		res, err = r.runSequential(ctx, accs, &summary)
	} else {
		res, err = r.runConcurrent(ctx, accs, &summary)
	}
	summary.Duration = time.Since(start)
	summary.DurationSec = summary.Duration.Seconds()

	slog.Info("Batch finished",
		"processed", summary.Processed,
		"with_coordinates", summary.WithCoordinates,
		"without_coordinates", summary.WithoutCoordinates,
		"failed", summary.Failed,
		"cached", summary.Cached,
		"duration", summary.Duration.String(),
	)
	return res, summary, err
}

func (r *Runner) runSequential(
	ctx context.Context,
	accs []accession.Accession,
	summary *Summary,
) ([]record.MetadataRecord, error) {
	res := make([]record.MetadataRecord, 0, len(accs))
	for i, acc := range accs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		out := r.resolve(ctx, acc)
		if err := ctx.Err(); err != nil {
			// resolution was interrupted, its record is incomplete
			return res, err
		}

		if err := r.emit(out, summary); err != nil {
			return res, err
		}
		res = append(res, out.rec)

		if out.cached || i == len(accs)-1 {
			continue
		}
		if err := r.sleep(ctx, r.delay); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (r *Runner) runConcurrent(
	ctx context.Context,
	accs []accession.Accession,
	summary *Summary,
) ([]record.MetadataRecord, error) {
	var mu sync.Mutex
	done := make([]*result, len(accs))
	res := make([]record.MetadataRecord, 0, len(accs))
	var next int

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)

	for i, acc := range accs {
		if gCtx.Err() != nil {
			break
		}
		pre, ok := r.fromCache(gCtx, acc)
		if !ok {
			if err := r.gate.Wait(gCtx); err != nil {
				break
			}
		}

		g.Go(func() error {
			out := pre
			if !ok {
				out = r.resolveRemote(gCtx, acc)
			}
			if gCtx.Err() != nil {
				return nil
			}

			mu.Lock()
			defer mu.Unlock()
			done[i] = &out
			for next < len(done) && done[next] != nil {
				if err := r.emit(*done[next], summary); err != nil {
					return err
				}
				res = append(res, done[next].rec)
				next++
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	return res, err
}

func (r *Runner) resolve(ctx context.Context, acc accession.Accession) result {
	if res, ok := r.fromCache(ctx, acc); ok {
		return res
	}
	return r.resolveRemote(ctx, acc)
}

func (r *Runner) fromCache(ctx context.Context, acc accession.Accession) (result, bool) {
	if r.cache == nil {
		return result{}, false
	}
	rec, ok := r.cache.Get(ctx, acc)
	if !ok {
		return result{}, false
	}
	slog.Info("Accession from cache", "accession", acc.ID)
	return result{rec: rec, cached: true}, true
}

func (r *Runner) resolveRemote(ctx context.Context, acc accession.Accession) result {
	out := r.resolver.Resolve(ctx, acc)
	rec := out.Record()
	if r.cache != nil && !out.IsFailed() && out.Complete && ctx.Err() == nil {
		if err := r.cache.Put(ctx, rec); err != nil {
			slog.Warn("Cannot cache record", "accession", acc.ID, "error", err)
		}
	}
	return result{rec: rec, failed: out.IsFailed()}
}

func (r *Runner) emit(out result, summary *Summary) error {
	summary.add(out.rec, out.failed, out.cached)
	if r.progress != nil {
		r.progress.Increment()
	}
	if r.onRecord != nil {
		return r.onRecord(out.rec)
	}
	return nil
}

func ctxSleep(ctx context.Context, d time.Duration) error {
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
