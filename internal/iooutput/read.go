package iooutput

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/gnames/accmeta/pkg/record"
)

// ReadTSV reads records written by TSVWriter. The header line is
// required and must match record.Header.
func ReadTSV(r io.Reader) ([]record.MetadataRecord, error) {
	var res []record.MetadataRecord
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var line int
	for scanner.Scan() {
		line++
		text := strings.TrimRight(scanner.Text(), "\r")
		if line == 1 {
			if !slices.Equal(strings.Split(text, "\t"), record.Header()) {
				return nil, fmt.Errorf("line 1: unexpected header %q", text)
			}
			continue
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		rec, err := record.FromRow(strings.Split(text, "\t"))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		res = append(res, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if line == 0 {
		return nil, fmt.Errorf("no header found")
	}
	return res, nil
}
