package record

import "github.com/gnames/accmeta/pkg/accession"

// OutcomeKind distinguishes resolved and failed accessions.
type OutcomeKind int

const (
	Resolved OutcomeKind = iota
	Failed
)

// String returns a label for the kind.
func (k OutcomeKind) String() string {
	if k == Failed {
		return "failed"
	}
	return "resolved"
}

// Outcome is the result of resolving one accession. A Failed outcome still
// carries a finalized all-unknown record, so every accession produces
// exactly one output row.
type Outcome struct {
	Kind OutcomeKind

	// Reason describes why resolution failed. Empty for Resolved.
	Reason string

	// Complete is false when at least one remote call exhausted its
	// retries. Incomplete outcomes are not cached.
	Complete bool

	record MetadataRecord
}

// NewResolved wraps a record into a Resolved outcome. The record is
// finalized if it was not.
func NewResolved(rec MetadataRecord, complete bool) Outcome {
	if !rec.Final() {
		rec.Finalize()
	}
	return Outcome{Kind: Resolved, Complete: complete, record: rec}
}

// NewFailed creates a Failed outcome for acc.
func NewFailed(acc accession.Accession, reason string, complete bool) Outcome {
	rec := New(acc)
	rec.Finalize()
	return Outcome{
		Kind:     Failed,
		Reason:   reason,
		Complete: complete,
		record:   rec,
	}
}

// Record returns the finalized record of the outcome.
func (o Outcome) Record() MetadataRecord {
	return o.record
}

// IsFailed checks if the outcome is Failed.
func (o Outcome) IsFailed() bool {
	return o.Kind == Failed
}
