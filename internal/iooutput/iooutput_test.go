package iooutput_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/gnames/accmeta/internal/iooutput"
	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/coord"
	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	var buf bytes.Buffer
	w := iooutput.NewTSVWriter(&buf)

	rec := record.New(accession.New("MN908947.3", accession.NucleotideRecord))
	rec.Set(record.Organism, "SARS-CoV-2", record.Primary)
	rec.Set(record.Host, "Homo\tsapiens\nadult", record.Primary)
	rec.SetCoords(coord.Parse("30.59 N 114.31 E"), record.Primary)
	rec.Finalize()
	require.NoError(t, w.Write(rec))

	failed := record.NewFailed(
		accession.New("SRR1", accession.SequencingRun), "no records found", true,
	).Record()
	require.NoError(t, w.Write(failed))
	require.NoError(t, w.Flush())
	assert.Equal(t, 2, w.Rows())

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Len(t, strings.Split(l, "\t"), len(record.Header()))
	}
	assert.Contains(t, lines[1], "Homo sapiens adult")
	assert.True(t, strings.HasPrefix(lines[2], "SRR1\tSRA\tN/A"))

	recs, err := iooutput.ReadTSV(&buf)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "SARS-CoV-2", recs[0].Value(record.Organism))
	assert.Equal(t, "Homo sapiens adult", recs[0].Value(record.Host))
	assert.Equal(t, rec.Coords, recs[0].Coords)
	assert.Equal(t, accession.SequencingRun, recs[1].Source)
	assert.False(t, recs[1].HasCoords())
}

func TestEmptyTable(t *testing.T) {
	var buf bytes.Buffer
	w := iooutput.NewTSVWriter(&buf)
	require.NoError(t, w.Flush())
	assert.Equal(t, strings.Join(record.Header(), "\t")+"\n", buf.String())

	recs, err := iooutput.ReadTSV(&buf)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestReadTSVErrors(t *testing.T) {
	tests := []struct {
		msg   string
		input string
	}{
		{"empty", ""},
		{"bad header", "Accession\tSource\n"},
		{"short row", strings.Join(record.Header(), "\t") + "\nMN1\tNucleotide\n"},
		{"bad latitude", strings.Join(record.Header(), "\t") + "\n" +
			"MN1\tNucleotide\tN/A\tN/A\tN/A\tN/A\tnorth\t1.0\tN/A\tN/A\tN/A\tN/A\tN/A\tN/A\tN/A\tN/A\n"},
	}
	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			_, err := iooutput.ReadTSV(strings.NewReader(v.input))
			assert.Error(t, err)
		})
	}
}

func TestErrors(t *testing.T) {
	cause := errors.New("disk full")
	err := iooutput.WriteError("out.tsv", cause)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.OutputWriteError, gnErr.Code)
	assert.Equal(t, []any{"out.tsv"}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, cause)

	err = iooutput.ReadError("in.tsv", cause)
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.OutputReadError, gnErr.Code)
}
