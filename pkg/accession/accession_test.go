package accession_test

import (
	"strings"
	"testing"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		msg  string
		line string
		ok   bool
		id   string
		src  accession.SourceKind
	}{
		{"bare id", "MN908947.3", true, "MN908947.3", accession.NucleotideRecord},
		{"whitespace", "  MN908947.3 \t", true, "MN908947.3", accession.NucleotideRecord},
		{"blank", "   ", false, "", 0},
		{"comment", "# header", false, "", 0},
		{"sra tag", "SRR12345678\tSRA", true, "SRR12345678", accession.SequencingRun},
		{"run tag", "SRR1 run", true, "SRR1", accession.SequencingRun},
		{"prefix", "sra:SRR42", true, "SRR42", accession.SequencingRun},
		{"nuccore tag", "OQ1 nuccore", true, "OQ1", accession.NucleotideRecord},
		{"unknown tag", "OQ1 whatever", true, "OQ1", accession.NucleotideRecord},
		{"unknown prefix", "abc:OQ1", true, "abc:OQ1", accession.NucleotideRecord},
	}

	for _, v := range tests {
		t.Run(v.msg, func(t *testing.T) {
			acc, ok := accession.ParseLine(v.line)
			assert.Equal(t, v.ok, ok)
			if !ok {
				return
			}
			assert.Equal(t, v.id, acc.ID)
			assert.Equal(t, v.src, acc.Source)
		})
	}
}

func TestReadList(t *testing.T) {
	input := `# accessions
MN908947.3

SRR11092064 SRA
  OQ282284.1
`
	accs, err := accession.ReadList(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, accs, 3)
	assert.Equal(t, "MN908947.3", accs[0].ID)
	assert.Equal(t, accession.SequencingRun, accs[1].Source)
	assert.Equal(t, "OQ282284.1", accs[2].ID)

	_, err = accession.ReadList(strings.NewReader("# nothing\n\n"))
	assert.ErrorIs(t, err, accession.ErrEmptyList)
}

func TestValid(t *testing.T) {
	assert.True(t, accession.New("NC_045512.2", accession.NucleotideRecord).Valid())
	assert.False(t, accession.New("abc:OQ1", accession.NucleotideRecord).Valid())
	assert.False(t, accession.New("", accession.NucleotideRecord).Valid())
}

func TestSourceKindLabels(t *testing.T) {
	assert.Equal(t, "SRA", accession.SequencingRun.String())
	assert.Equal(t, "Nucleotide", accession.NucleotideRecord.String())

	src, err := accession.NewSourceKind("SRA")
	require.NoError(t, err)
	assert.Equal(t, accession.SequencingRun, src)

	_, err = accession.NewSourceKind("protein")
	assert.Error(t, err)
}
