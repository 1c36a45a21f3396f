package record_test

import (
	"testing"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/coord"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFirstWriterWins(t *testing.T) {
	rec := record.New(accession.New("MN908947.3", accession.NucleotideRecord))

	ok := rec.Set(record.Host, "Homo sapiens", record.Primary)
	assert.True(t, ok)
	ok = rec.Set(record.Host, "Mus musculus", record.LinkedSample)
	assert.False(t, ok)

	v, ok := rec.Get(record.Host)
	assert.True(t, ok)
	assert.Equal(t, "Homo sapiens", v)
	assert.Equal(t, record.Primary, rec.Provenance[record.Host])

	assert.False(t, rec.Set(record.Strain, "   ", record.Primary))
	assert.False(t, rec.Set(record.Strain, "N/A", record.Primary))
	assert.False(t, rec.Resolved(record.Strain))
	assert.False(t, rec.Set(record.Coordinates, "1 2", record.Primary))
}

func TestSetCoords(t *testing.T) {
	rec := record.New(accession.New("OQ1", accession.NucleotideRecord))
	assert.False(t, rec.SetCoords(coord.Absent, record.Primary))
	assert.True(t, rec.SetCoords(coord.NewPair(1, 2), record.Primary))
	assert.False(t, rec.SetCoords(coord.NewPair(3, 4), record.LinkedSample))
	assert.Equal(t, 1.0, rec.Coords.Lat)
	assert.True(t, rec.HasCoords())
	assert.Empty(t, rec.Missing(record.Coordinates))
}

func TestFinalize(t *testing.T) {
	rec := record.New(accession.New("SRR1", accession.SequencingRun))
	rec.Set(record.Platform, "ILLUMINA", record.Primary)
	rec.Finalize()

	assert.True(t, rec.Final())
	assert.False(t, rec.Set(record.Host, "cow", record.LinkedSample))
	assert.Equal(t, record.Unknown, rec.Value(record.Host))

	row := rec.Row()
	require.Len(t, row, len(record.Header()))
	assert.Len(t, row, 16)
	for i, v := range row {
		assert.NotEmpty(t, v, record.Header()[i])
	}
	assert.Equal(t, "SRA", row[1])
	assert.Equal(t, "N/A", row[6])
	assert.Equal(t, "N/A", row[7])
	assert.Equal(t, "ILLUMINA", row[14])
}

func TestRowRoundTrip(t *testing.T) {
	rec := record.New(accession.New("MN908947.3", accession.NucleotideRecord))
	rec.Set(record.BioSample, "SAMN13922059", record.Primary)
	rec.Set(record.Organism, "Severe acute respiratory syndrome coronavirus 2", record.Primary)
	rec.Set(record.Country, "China", record.Primary)
	rec.Set(record.GeoLocation, "China: Wuhan", record.Primary)
	rec.SetCoords(coord.Parse("30.59 N 114.31 E"), record.Primary)
	rec.Set(record.CollectionDate, "Dec-2019", record.Primary)
	rec.Finalize()

	row := rec.Row()
	assert.Equal(t, "30.590000", row[6])
	assert.Equal(t, "114.310000", row[7])

	res, err := record.FromRow(row)
	require.NoError(t, err)
	assert.Equal(t, row, res.Row())
	assert.True(t, res.Final())

	_, err = record.FromRow(row[:5])
	assert.Error(t, err)
}

func TestOutcome(t *testing.T) {
	acc := accession.New("bad id", accession.NucleotideRecord)
	o := record.NewFailed(acc, "invalid accession", true)
	assert.True(t, o.IsFailed())
	rec := o.Record()
	assert.Equal(t, "bad id", rec.Accession)
	for _, f := range record.Fields {
		assert.Equal(t, record.Unknown, rec.Value(f))
	}

	r := record.New(accession.New("OQ1", accession.NucleotideRecord))
	o = record.NewResolved(r, false)
	assert.False(t, o.IsFailed())
	assert.False(t, o.Complete)
	assert.True(t, o.Record().Final())
}

func TestNewField(t *testing.T) {
	f, err := record.NewField("Collection_Date")
	require.NoError(t, err)
	assert.Equal(t, record.CollectionDate, f)

	_, err = record.NewField("elevation")
	assert.Error(t, err)
	assert.Equal(t, []string{"coordinates", "host"},
		record.FieldNames([]record.Field{record.Host, record.Coordinates}))
}
