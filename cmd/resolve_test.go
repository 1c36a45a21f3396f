package cmd

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gnames/accmeta/internal/iooutput"
	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flatRecord = `LOCUS       %s               29903 bp ss-RNA     linear   VRL 18-MAR-2020
DBLINK      BioProject: PRJNA603194
            BioSample: SAMN13922059
FEATURES             Location/Qualifiers
     source          1..29903
                     /organism="Severe acute respiratory syndrome coronavirus 2"
                     /country="China: Wuhan"
                     /lat_lon="35.99 N 120.42 E"
                     /collection_date="Dec-2019"
//
`

// newNCBI starts a fake E-utilities server and points configuration to
// it. Accession "MISSING" is not found.
func newNCBI(t *testing.T) *atomic.Int32 {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			id := r.URL.Query().Get("id")
			if !strings.HasSuffix(r.URL.Path, "efetch.fcgi") || id == "MISSING" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, "Error: cannot fetch")
				return
			}
			_, _ = io.WriteString(w, strings.Replace(flatRecord, "%s", id, 1))
		},
	))
	t.Cleanup(srv.Close)
	t.Setenv("ACCMETA_NCBI_BASE_URL", srv.URL)
	t.Setenv("ACCMETA_RESOLVE_MAX_RETRY_ATTEMPTS", "1")
	t.Setenv("ACCMETA_NCBI_REQUESTS_PER_SECOND", "100")
	return &hits
}

func readOutput(t *testing.T, s string) []record.MetadataRecord {
	t.Helper()
	res, err := iooutput.ReadTSV(strings.NewReader(s))
	require.NoError(t, err)
	return res
}

func TestResolveFile(t *testing.T) {
	home := setHome(t)
	newNCBI(t)

	list := filepath.Join(home, "acc.txt")
	require.NoError(t, os.WriteFile(list,
		[]byte("# list\nMN908947.3\nMISSING\nOQ282284.1\n"), 0644))
	out := filepath.Join(home, "out.tsv")

	_, _, err := execute(t, "resolve", list,
		"--no-cache", "--delay", "0s", "-q", "-o", out)
	require.NoError(t, err)

	bs, err := os.ReadFile(out)
	require.NoError(t, err)
	recs := readOutput(t, string(bs))
	require.Len(t, recs, 3)

	ids := []string{"MN908947.3", "MISSING", "OQ282284.1"}
	for i := range recs {
		assert.Equal(t, ids[i], recs[i].Accession)
		assert.Equal(t, accession.NucleotideRecord, recs[i].Source)
	}

	rec := recs[0]
	assert.Equal(t, "China", rec.Value(record.Country))
	assert.Equal(t, "China: Wuhan", rec.Value(record.GeoLocation))
	assert.Equal(t, "SAMN13922059", rec.Value(record.BioSample))
	lat, lon := rec.Coords.Strings()
	assert.Equal(t, "35.990000", lat)
	assert.Equal(t, "120.420000", lon)

	missing := recs[1]
	assert.False(t, missing.HasCoords())
	assert.Equal(t, record.Unknown, missing.Value(record.Organism))
}

func TestResolveStdin(t *testing.T) {
	setHome(t)
	newNCBI(t)

	stdout, stderr, err := executeIn(t, "MN908947.3\n",
		"resolve", "-", "--no-cache", "--delay", "0s", "-q")
	require.NoError(t, err)
	assert.Empty(t, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(record.Header(), "\t"), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "MN908947.3\tNucleotide\t"))
}

func TestResolveCache(t *testing.T) {
	setHome(t)
	hits := newNCBI(t)

	args := []string{"resolve", "--delay", "0s", "--summary-json"}
	first, _, err := executeIn(t, "MN908947.3\n", args...)
	require.NoError(t, err)
	n := hits.Load()
	assert.Positive(t, n)

	second, stderr, err := executeIn(t, "MN908947.3\n", args...)
	require.NoError(t, err)
	assert.Equal(t, n, hits.Load())
	assert.Equal(t, first, second)
	assert.Contains(t, stderr, `"cached": 1`)
	assert.Contains(t, stderr, `"withCoordinates": 1`)
}

func TestResolveCacheSettings(t *testing.T) {
	setHome(t)
	hits := newNCBI(t)

	args := []string{"resolve", "--delay", "0s", "-q"}
	stdout, _, err := executeIn(t, "MN908947.3\n", args...)
	require.NoError(t, err)
	recs := readOutput(t, stdout)
	require.Len(t, recs, 1)
	lat, lon := recs[0].Coords.Strings()
	assert.Equal(t, "35.990000", lat)
	assert.Equal(t, "120.420000", lon)
	n := hits.Load()

	// other coordinate order must not reuse the cached record
	lonFirst := append(args, "--lon-first")
	stdout, _, err = executeIn(t, "MN908947.3\n", lonFirst...)
	require.NoError(t, err)
	assert.Greater(t, hits.Load(), n)
	recs = readOutput(t, stdout)
	require.Len(t, recs, 1)
	assert.False(t, recs[0].HasCoords())
	assert.Contains(t, stdout, record.Unknown+"\t"+record.Unknown)

	n = hits.Load()
	again, _, err := executeIn(t, "MN908947.3\n", lonFirst...)
	require.NoError(t, err)
	assert.Equal(t, n, hits.Load())
	assert.Equal(t, stdout, again)
}

func TestResolveErrors(t *testing.T) {
	t.Run("empty list", func(t *testing.T) {
		setHome(t)
		_, _, err := executeIn(t, "# nothing\n\n", "resolve", "-q")
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.EmptyAccessionListError, gnErr.Code)
	})

	t.Run("no file", func(t *testing.T) {
		home := setHome(t)
		_, _, err := execute(t, "resolve", filepath.Join(home, "none.txt"), "-q")
		require.Error(t, err)
		gnErr, ok := err.(*gn.Error)
		require.True(t, ok)
		assert.Equal(t, errcode.AccessionListError, gnErr.Code)
	})

	t.Run("too many args", func(t *testing.T) {
		setHome(t)
		_, _, err := execute(t, "resolve", "a.txt", "b.txt")
		assert.Error(t, err)
	})
}

func TestResolveFlagsOptions(t *testing.T) {
	setHome(t)
	cmd := getResolveCmd()
	var flags resolveFlags
	cmd.ResetFlags()
	flags.register(cmd)

	require.NoError(t, cmd.ParseFlags([]string{
		"-j", "3", "--lon-first", "--no-cache", "--required", "coordinates,host",
	}))
	opts := flags.options(cmd)
	assert.Len(t, opts, 4)

	_, _, err := execute(t, "coords", "1 2")
	require.NoError(t, err)
	cfg.Update(opts)
	assert.Equal(t, 3, cfg.JobsNumber)
	assert.Equal(t, "lon_lat", cfg.Resolve.CoordOrder)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, []string{"coordinates", "host"}, cfg.Resolve.RequiredFields)
}
