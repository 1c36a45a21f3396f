package cmd

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/gnames/accmeta/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setHome points HOME to a temporary directory.
func setHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	return home
}

// execute runs the root command with args and returns its STDOUT and
// STDERR output.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeIn(t, "", args...)
}

// executeIn is execute with in as STDIN.
func executeIn(t *testing.T, in string, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(closeLog)

	cmd := getRootCmd()
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)
	cmd.SetIn(strings.NewReader(in))
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRootCmd(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd)
	assert.Equal(t, "accmeta", cmd.Use)

	var names []string
	for _, c := range cmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"resolve", "coords", "export"})
}

func TestVersion(t *testing.T) {
	for _, flag := range []string{"--version", "-V"} {
		t.Run(flag, func(t *testing.T) {
			setHome(t)
			out, _, err := execute(t, flag)
			require.NoError(t, err)
			assert.Contains(t, out, "version: ")
			assert.Contains(t, out, "build: ")
		})
	}
}

func TestHelp(t *testing.T) {
	setHome(t)
	out, _, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "accmeta")
	assert.Contains(t, out, "ACCMETA_")
	assert.Contains(t, out, "resolve")
}

func TestBootstrapCreatesFiles(t *testing.T) {
	home := setHome(t)
	_, _, err := execute(t, "coords", "10 20")
	require.NoError(t, err)

	for _, p := range []string{
		config.ConfigFilePath(home),
		config.FieldsFilePath(home),
	} {
		_, err := os.Stat(p)
		assert.NoError(t, err, p)
	}
	assert.Equal(t, home, cfg.HomeDir)
}

func TestConfigPrecedence(t *testing.T) {
	home := setHome(t)
	require.NoError(t, os.MkdirAll(config.ConfigDir(home), 0755))
	yml := "jobs_number: 3\nresolve:\n  coord_order: lon_lat\n"
	require.NoError(t, os.WriteFile(config.ConfigFilePath(home), []byte(yml), 0644))
	t.Setenv("ACCMETA_JOBS_NUMBER", "2")
	t.Setenv("ACCMETA_NCBI_API_KEY", "secret")

	_, _, err := execute(t, "coords", "10 20")
	require.NoError(t, err)

	// environment wins over file
	assert.Equal(t, 2, cfg.JobsNumber)
	assert.Equal(t, "secret", cfg.NCBI.APIKey)
	// file wins over defaults
	assert.Equal(t, "lon_lat", cfg.Resolve.CoordOrder)
	// missing keys keep defaults
	assert.Equal(t, config.New().Resolve.RetryJitter, cfg.Resolve.RetryJitter)
	assert.Equal(t, []string{"coordinates"}, cfg.Resolve.RequiredFields)
}
