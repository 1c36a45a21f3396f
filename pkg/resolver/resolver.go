// Package resolver builds one metadata record per accession by querying
// remote services with a chain of fallback methods.
//
// Resolution visits these states in strict order:
//
//  1. PrimaryFetch: the record of the accession itself (flat record for
//     nucleotide accessions, run summary for sequencing runs).
//  2. LinkResolution: only when a required field is still missing, find
//     the biological sample linked to the accession.
//  3. SampleAttributeFetch: attributes of the linked sample fill the
//     fields that are still missing.
//  4. Finalize: optional organism normalization, unresolved fields become
//     record.Unknown.
//
// Failures of remote calls never abort resolution, they only leave fields
// unresolved.
package resolver

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/coord"
	"github.com/gnames/accmeta/pkg/extract"
	"github.com/gnames/accmeta/pkg/orgname"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/accmeta/pkg/remote"
	"github.com/gnames/accmeta/pkg/retry"
	"github.com/gnames/gnuuid"
)

// Resolver resolves metadata of accessions. It is safe for concurrent use
// if its remote.Client is.
type Resolver struct {
	client     remote.Client
	policy     retry.Policy
	extractor  *extract.Extractor
	required   []record.Field
	order      coord.Order
	normalizer orgname.Normalizer
}

// Option configures Resolver.
type Option func(*Resolver)

// OptRetryPolicy sets the retry policy of remote calls.
func OptRetryPolicy(p retry.Policy) Option {
	return func(r *Resolver) {
		r.policy = p
	}
}

// OptExtractor sets the field extractor.
func OptExtractor(e *extract.Extractor) Option {
	return func(r *Resolver) {
		if e != nil {
			r.extractor = e
		}
	}
}

// OptRequiredFields sets fields that trigger the linked sample lookup when
// they are missing after PrimaryFetch.
func OptRequiredFields(fs []record.Field) Option {
	return func(r *Resolver) {
		r.required = fs
	}
}

// OptCoordOrder sets the order of numbers in coordinate strings.
func OptCoordOrder(o coord.Order) Option {
	return func(r *Resolver) {
		r.order = o
	}
}

// OptNormalizer enables canonical forms of organism names.
func OptNormalizer(n orgname.Normalizer) Option {
	return func(r *Resolver) {
		r.normalizer = n
	}
}

// New creates a Resolver.
func New(client remote.Client, opts ...Option) *Resolver {
	res := &Resolver{
		client:   client,
		policy:   retry.DefaultPolicy(),
		required: []record.Field{record.Coordinates},
		order:    coord.OrderLatLon,
	}
	for _, opt := range opts {
		opt(res)
	}
	if res.extractor == nil {
		res.extractor = extract.New(nil)
	}
	return res
}

// Settings identifies resolution settings that change records: coordinate
// order, required fields, organism normalization and extraction rules.
// Records resolved with different settings must not replace each other.
func (r *Resolver) Settings() string {
	parts := []string{
		r.order.String(),
		strings.Join(record.FieldNames(r.required), ","),
		strconv.FormatBool(r.normalizer != nil),
		r.extractor.Digest(),
	}
	return gnuuid.New(strings.Join(parts, "|")).String()
}

var bioSampleRe = regexp.MustCompile(`^SAM[NED][A-Z]?[0-9]+$`)

// state keeps the progress of one resolution.
type state struct {
	acc      accession.Accession
	rec      record.MetadataRecord
	payloads int
	complete bool
}

// Resolve returns the outcome of resolving acc. It never panics on remote
// failures and always returns an outcome with a finalized record.
func (r *Resolver) Resolve(ctx context.Context, acc accession.Accession) record.Outcome {
	if !acc.Valid() {
		slog.Warn("Invalid accession", "accession", acc.ID)
		return record.NewFailed(acc, "invalid accession", true)
	}

	start := time.Now()
	st := &state{acc: acc, rec: record.New(acc), complete: true}

	r.primaryFetch(ctx, st)

	if sampleID, ok := r.linkResolution(ctx, st); ok {
		r.sampleAttributeFetch(ctx, st, sampleID)
	}

	if st.payloads == 0 {
		reason := "no records found"
		if !st.complete {
			reason = "remote service unavailable"
		}
		slog.Info("Accession not resolved",
			"accession", acc.ID, "source", acc.Source.String(), "reason", reason)
		return record.NewFailed(acc, reason, st.complete)
	}

	r.finalize(st)
	slog.Info("Accession resolved",
		"accession", acc.ID,
		"source", acc.Source.String(),
		"fields", st.rec.ResolvedCount(),
		"coordinates", st.rec.HasCoords(),
		"duration", time.Since(start).String(),
	)
	return record.NewResolved(st.rec, st.complete)
}

func (r *Resolver) primaryFetch(ctx context.Context, st *state) {
	method := "primary record"
	op := func(ctx context.Context) (remote.Payload, error) {
		return r.client.FetchPrimaryRecord(ctx, st.acc)
	}
	if st.acc.Source == accession.SequencingRun {
		method = "run summary"
		op = func(ctx context.Context) (remote.Payload, error) {
			return r.client.FetchRunSummary(ctx, st.acc.ID)
		}
	}

	p, err := retry.Execute(ctx, r.policy, op)
	if err != nil {
		r.logFailure(st, method, err)
		return
	}
	st.payloads++
	n := r.extractor.Apply(p, &st.rec, record.Primary, r.order)
	slog.Info("Fetched "+method, "accession", st.acc.ID, "fields", n)
}

func (r *Resolver) linkResolution(ctx context.Context, st *state) (string, bool) {
	missing := st.rec.Missing(r.required...)
	if len(missing) == 0 {
		return "", false
	}

	if id, ok := st.rec.Get(record.BioSample); ok && bioSampleRe.MatchString(id) {
		slog.Debug("Using sample from primary record",
			"accession", st.acc.ID, "sample", id)
		return id, true
	}

	id, err := retry.Execute(ctx, r.policy,
		func(ctx context.Context) (string, error) {
			return r.client.FetchLinkedSample(ctx, st.acc)
		})
	if err != nil {
		r.logFailure(st, "linked sample", err)
		return "", false
	}
	slog.Info("Found linked sample",
		"accession", st.acc.ID,
		"sample", id,
		"missing", record.FieldNames(missing),
	)
	return id, true
}

func (r *Resolver) sampleAttributeFetch(ctx context.Context, st *state, sampleID string) {
	p, err := retry.Execute(ctx, r.policy,
		func(ctx context.Context) (remote.Payload, error) {
			return r.client.FetchSampleAttributes(ctx, sampleID)
		})
	if err != nil {
		r.logFailure(st, "sample attributes", err)
		return
	}
	st.payloads++
	n := r.extractor.Apply(p, &st.rec, record.LinkedSample, r.order)
	slog.Info("Fetched sample attributes",
		"accession", st.acc.ID, "sample", sampleID, "fields", n)
}

func (r *Resolver) finalize(st *state) {
	if r.normalizer != nil {
		if name, ok := st.rec.Get(record.Organism); ok {
			botanical := st.rec.Resolved(record.Cultivar)
			if canon, ok := r.normalizer.Canonical(name, botanical); ok && canon != name {
				st.rec.Replace(record.Organism, canon, record.Normalized)
			}
		}
	}

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		for _, f := range record.Fields {
			if m, ok := st.rec.Provenance[f]; ok {
				slog.Debug("Field provenance",
					"accession", st.acc.ID, "field", f.String(), "method", string(m))
			}
		}
	}
	st.rec.Finalize()
}

func (r *Resolver) logFailure(st *state, method string, err error) {
	var ex *retry.ExhaustedError
	switch {
	case remote.IsNotFound(err):
		slog.Info("Nothing found", "accession", st.acc.ID, "method", method)
	case errors.As(err, &ex):
		st.complete = false
		slog.Warn("Retries exhausted",
			"accession", st.acc.ID,
			"method", method,
			"attempts", ex.Attempts,
			"error", ex.Last,
		)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		st.complete = false
		slog.Warn("Remote call canceled", "accession", st.acc.ID, "method", method)
	default:
		slog.Warn("Remote call failed",
			"accession", st.acc.ID, "method", method, "error", err)
	}
}
