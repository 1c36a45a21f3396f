// Package accession describes identifiers of nucleotide records and
// sequencing runs, and reads them from accession lists.
package accession

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// SourceKind tells which remote database an accession belongs to.
type SourceKind int

const (
	// NucleotideRecord is an entry of the nucleotide database (GenBank).
	NucleotideRecord SourceKind = iota
	// SequencingRun is a run of the Sequence Read Archive.
	SequencingRun
)

// String returns the label used in the Source output column.
func (s SourceKind) String() string {
	if s == SequencingRun {
		return "SRA"
	}
	return "Nucleotide"
}

// NewSourceKind converts an output label or list tag to SourceKind.
func NewSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sra", "run", "srr":
		return SequencingRun, nil
	case "nucleotide", "nuccore", "gb", "genbank", "":
		return NucleotideRecord, nil
	}
	return NucleotideRecord, fmt.Errorf("unknown source %q", s)
}

// Accession is an identifier together with its source. It is immutable
// once read.
type Accession struct {
	ID     string
	Source SourceKind
}

// New creates an Accession.
func New(id string, src SourceKind) Accession {
	return Accession{ID: strings.TrimSpace(id), Source: src}
}

// String returns "ID (Source)".
func (a Accession) String() string {
	return fmt.Sprintf("%s (%s)", a.ID, a.Source)
}

// ErrEmptyList is returned when an accession list contains no
// accessions.
var ErrEmptyList = errors.New("accession list is empty")

var idRe = regexp.MustCompile(`^[A-Za-z0-9_.\-]+$`)

// Valid checks that the identifier is non-empty and holds only characters
// found in database accessions (letters, digits, '_', '.', '-').
func (a Accession) Valid() bool {
	return idRe.MatchString(a.ID)
}

// ParseLine converts a line of an accession list to Accession.
// Blank lines and comments (starting with '#') return false.
//
// Recognized forms:
//
//	MN908947.3            nucleotide record
//	SRR12345678 SRA       sequencing run (tags: sra, run, srr)
//	sra:SRR12345678       sequencing run
//	MN908947.3 nuccore    nucleotide record (tags: nuccore, nucleotide, gb)
func ParseLine(line string) (Accession, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return Accession{}, false
	}

	if pre, id, ok := strings.Cut(line, ":"); ok {
		if src, err := NewSourceKind(pre); err == nil && pre != "" {
			return New(id, src), true
		}
	}

	fields := strings.Fields(line)
	res := New(fields[0], NucleotideRecord)
	if len(fields) > 1 {
		if src, err := NewSourceKind(fields[1]); err == nil {
			res.Source = src
		}
	}
	return res, true
}

// ReadList reads accessions from r preserving their order.
func ReadList(r io.Reader) ([]Accession, error) {
	var res []Accession
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if acc, ok := ParseLine(scanner.Text()); ok {
			res = append(res, acc)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read accession list: %w", err)
	}
	if len(res) == 0 {
		return nil, ErrEmptyList
	}
	return res, nil
}
