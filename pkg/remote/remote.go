// Package remote defines the contract for services that return
// accession-related records.
//
// Implementations live in internal packages (see internal/ioncbi). All
// operations are blocking and idempotent, so callers may retry them freely.
package remote

import (
	"context"

	"github.com/gnames/accmeta/pkg/accession"
)

// Client fetches records that describe an accession.
type Client interface {
	// FetchPrimaryRecord returns the record of the accession itself: a flat
	// annotated text for nucleotide records, a run summary for sequencing
	// runs.
	FetchPrimaryRecord(ctx context.Context, acc accession.Accession) (Payload, error)

	// FetchLinkedSample returns the identifier of the biological sample
	// linked to the accession.
	FetchLinkedSample(ctx context.Context, acc accession.Accession) (string, error)

	// FetchSampleAttributes returns attributes of a biological sample.
	FetchSampleAttributes(ctx context.Context, sampleID string) (Payload, error)

	// FetchRunSummary returns the summary of a sequencing run.
	FetchRunSummary(ctx context.Context, runID string) (Payload, error)
}

// Payload is a raw record returned by a Client. It is either FlatRecord
// or AttributeList.
type Payload interface {
	payload()
}

// FlatRecord is an annotated text record made of lines of qualifiers
// such as `/country="Japan"`.
type FlatRecord struct {
	Text string
}

func (FlatRecord) payload() {}

// Attribute is a named value of an attribute list. HarmonizedName is a
// controlled vocabulary name and may be empty.
type Attribute struct {
	Name           string
	HarmonizedName string
	Value          string
}

// AttributeList is a structured record of named attributes.
type AttributeList struct {
	Attrs []Attribute
}

func (AttributeList) payload() {}
