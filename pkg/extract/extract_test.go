package extract_test

import (
	"testing"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/coord"
	"github.com/gnames/accmeta/pkg/extract"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/accmeta/pkg/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const genbank = `LOCUS       MN908947               29903 bp ss-RNA     linear   VRL 18-MAR-2020
DEFINITION  Severe acute respiratory syndrome coronavirus 2 isolate Wuhan-Hu-1,
            complete genome.
ACCESSION   MN908947
VERSION     MN908947.3
DBLINK      BioProject: PRJNA603194
            BioSample: SAMN13922059
FEATURES             Location/Qualifiers
     source          1..29903
                     /organism="Severe acute respiratory syndrome coronavirus
                     2"
                     /mol_type="genomic RNA"
                     /isolate="Wuhan-Hu-1"
                     /host="Homo sapiens"
                     /db_xref="taxon:2697049"
                     /geo_loc_name="China: Wuhan"
                     /lat_lon="30.59 N 114.31 E"
                     /collection_date="Dec-2019"
                     /strain="missing"
//
`

func TestExtractFlat(t *testing.T) {
	p := remote.FlatRecord{Text: genbank}
	tests := []struct {
		msg  string
		name string
		ok   bool
		res  string
	}{
		{"simple", "isolate", true, "Wuhan-Hu-1"},
		{"multiline", "organism", true, "Severe acute respiratory syndrome coronavirus 2"},
		{"case insensitive", "HOST", true, "Homo sapiens"},
		{"colon marker", "BioSample:", true, "SAMN13922059"},
		{"absent", "cultivar", false, ""},
		{"null term kept", "strain", true, "missing"},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			res, ok := extract.Extract(p, v.name)
			assert.Equal(t, v.ok, ok)
			assert.Equal(t, v.res, res)
		})
	}
}

func TestExtractUnterminatedQuote(t *testing.T) {
	p := remote.FlatRecord{Text: "  /country=\"Japan: Tokyo\n  more text\n"}
	_, ok := extract.Extract(p, "country")
	assert.False(t, ok)

	p = remote.FlatRecord{Text: "  /note=\"said \"\"hi\"\" twice\"\n"}
	res, ok := extract.Extract(p, "note")
	assert.True(t, ok)
	assert.Equal(t, `said "hi" twice`, res)
}

func TestExtractAttributes(t *testing.T) {
	p := remote.AttributeList{Attrs: []remote.Attribute{
		{Name: "geo loc", HarmonizedName: "geo_loc_name", Value: "Japan: Tokyo"},
		{Name: "host", Value: "cow"},
		{Name: "Host", HarmonizedName: "host", Value: "Bos taurus"},
		{Name: "empty", HarmonizedName: "isolate", Value: "  "},
	}}

	res, ok := extract.Extract(p, "host")
	assert.True(t, ok)
	assert.Equal(t, "Bos taurus", res, "harmonized name wins")

	res, ok = extract.Extract(p, "GEO_LOC_NAME")
	assert.True(t, ok)
	assert.Equal(t, "Japan: Tokyo", res)

	res, ok = extract.Extract(p, "geo*")
	assert.True(t, ok)
	assert.Equal(t, "Japan: Tokyo", res)

	_, ok = extract.Extract(p, "isolate")
	assert.False(t, ok)

	_, ok = extract.Extract(nil, "host")
	assert.False(t, ok)
}

func TestApplyFlat(t *testing.T) {
	ex := extract.New(nil)
	rec := record.New(accession.New("MN908947.3", accession.NucleotideRecord))
	n := ex.Apply(remote.FlatRecord{Text: genbank}, &rec, record.Primary, coord.OrderLatLon)
	assert.Equal(t, 8, n)

	tests := []struct {
		f   record.Field
		res string
	}{
		{record.BioSample, "SAMN13922059"},
		{record.Organism, "Severe acute respiratory syndrome coronavirus 2"},
		{record.Country, "China"},
		{record.GeoLocation, "China: Wuhan"},
		{record.Isolate, "Wuhan-Hu-1"},
		{record.Host, "Homo sapiens"},
		{record.CollectionDate, "Dec-2019"},
	}
	for _, v := range tests {
		assert.Equal(t, v.res, rec.Value(v.f), v.f.String())
	}
	assert.False(t, rec.Resolved(record.Strain), "null term ignored")
	require.True(t, rec.HasCoords())
	assert.Equal(t, 30.59, rec.Coords.Lat)
	assert.Equal(t, 114.31, rec.Coords.Lon)
	assert.Equal(t, record.Primary, rec.Provenance[record.Host])
}

func TestApplyFirstWriterWins(t *testing.T) {
	ex := extract.New(nil)
	rec := record.New(accession.New("OQ1", accession.NucleotideRecord))
	rec.Set(record.Host, "Homo sapiens", record.Primary)

	p := remote.AttributeList{Attrs: []remote.Attribute{
		{Name: "host", HarmonizedName: "host", Value: "Mus musculus"},
		{Name: "latitude", Value: "12.5 S"},
		{Name: "longitude", Value: "45.25 W"},
		{Name: "tissue", Value: "leaf"},
	}}
	n := ex.Apply(p, &rec, record.LinkedSample, coord.OrderLatLon)
	assert.Equal(t, 2, n)
	assert.Equal(t, "Homo sapiens", rec.Value(record.Host))
	assert.Equal(t, "leaf", rec.Value(record.Tissue))
	assert.Equal(t, record.LinkedSample, rec.Provenance[record.Tissue])
	assert.Equal(t, -12.5, rec.Coords.Lat)
	assert.Equal(t, -45.25, rec.Coords.Lon)
}

func TestApplyRunSummary(t *testing.T) {
	ex := extract.New(nil)
	rec := record.New(accession.New("SRR11092064", accession.SequencingRun))
	p := remote.AttributeList{Attrs: []remote.Attribute{
		{Name: "Run", Value: "SRR11092064"},
		{Name: "LibraryStrategy", Value: "RNA-Seq"},
		{Name: "Platform", Value: "ILLUMINA"},
		{Name: "ScientificName", Value: "Homo sapiens"},
		{Name: "BioSample", Value: "SAMN14082201"},
	}}
	ex.Apply(p, &rec, record.Primary, coord.OrderLatLon)
	assert.Equal(t, "RNA-Seq", rec.Value(record.Library))
	assert.Equal(t, "ILLUMINA", rec.Value(record.Platform))
	assert.Equal(t, "Homo sapiens", rec.Value(record.Organism))
	assert.Equal(t, "SAMN14082201", rec.Value(record.BioSample))
	assert.False(t, rec.HasCoords())
}

func TestIsNull(t *testing.T) {
	for _, v := range []string{"missing", "Not Collected", "N/A", "", "missing: control sample"} {
		assert.True(t, extract.IsNull(v), v)
	}
	for _, v := range []string{"Japan: Tokyo", "Nairobi"} {
		assert.False(t, extract.IsNull(v), v)
	}
}

func TestDigest(t *testing.T) {
	def := extract.New(nil).Digest()
	assert.NotEmpty(t, def)
	assert.Equal(t, def, extract.New(extract.DefaultRules()).Digest())

	rules, err := extract.LoadRules([]byte(`fields:
  - field: host
    flat: [host]
`))
	require.NoError(t, err)
	custom := extract.New(rules).Digest()
	assert.NotEqual(t, def, custom)
	assert.Equal(t, custom, extract.New(rules).Digest())
}
