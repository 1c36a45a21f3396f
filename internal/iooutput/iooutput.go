// Package iooutput writes resolved records as tab-separated values and
// reads them back.
package iooutput

import (
	"bufio"
	"io"
	"strings"
	"sync"

	"github.com/gnames/accmeta/pkg/record"
)

// TSVWriter writes a header followed by one row per record. It is safe for
// concurrent use.
type TSVWriter struct {
	mu      sync.Mutex
	w       *bufio.Writer
	started bool
	rows    int
}

// NewTSVWriter creates a writer. The header is written with the first
// record or on Flush, whichever comes first.
func NewTSVWriter(w io.Writer) *TSVWriter {
	return &TSVWriter{w: bufio.NewWriter(w)}
}

// Write writes one record.
func (t *TSVWriter) Write(rec record.MetadataRecord) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.header(); err != nil {
		return err
	}
	if err := t.line(rec.Row()); err != nil {
		return err
	}
	t.rows++
	return nil
}

// Rows returns the number of written records.
func (t *TSVWriter) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

// Flush writes buffered data, including the header of an empty table.
func (t *TSVWriter) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.header(); err != nil {
		return err
	}
	return t.w.Flush()
}

func (t *TSVWriter) header() error {
	if t.started {
		return nil
	}
	t.started = true
	return t.line(record.Header())
}

func (t *TSVWriter) line(vals []string) error {
	for i, v := range vals {
		if i > 0 {
			if err := t.w.WriteByte('\t'); err != nil {
				return err
			}
		}
		if _, err := t.w.WriteString(sanitize(v)); err != nil {
			return err
		}
	}
	return t.w.WriteByte('\n')
}

var sanitizer = strings.NewReplacer("\t", " ", "\r\n", " ", "\n", " ", "\r", " ")

// sanitize keeps a value inside its column.
func sanitize(s string) string {
	if s == "" {
		return record.Unknown
	}
	return sanitizer.Replace(s)
}
