package iofs

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/accmeta/pkg/config"
	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/accmeta/pkg/templates"
	"github.com/gnames/gn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	for range 2 {
		require.NoError(t, EnsureDirs(tmpDir))
	}

	dirs := []string{
		filepath.Join(tmpDir, ".config", "accmeta"),
		filepath.Join(tmpDir, ".cache", "accmeta"),
		filepath.Join(tmpDir, ".local", "share", "accmeta", "logs"),
	}
	for _, d := range dirs {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), d)
	}
}

func TestEnsureDirsError(t *testing.T) {
	tmpDir := t.TempDir()
	// a file where a directory is expected
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".config"), nil, 0644))

	err := EnsureDirs(tmpDir)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DirError, gnErr.Code)
}

func TestEnsureFiles(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))

	require.NoError(t, EnsureConfigFile(tmpDir))
	require.NoError(t, EnsureFieldsFile(tmpDir))

	data, err := os.ReadFile(config.ConfigFilePath(tmpDir))
	require.NoError(t, err)
	assert.Equal(t, templates.ConfigYAML, string(data))

	data, err = os.ReadFile(config.FieldsFilePath(tmpDir))
	require.NoError(t, err)
	assert.Equal(t, templates.FieldsYAML, string(data))
}

func TestEnsureFilesKeepsUserChanges(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))

	path := config.ConfigFilePath(tmpDir)
	custom := "jobs_number: 4\n"
	require.NoError(t, os.WriteFile(path, []byte(custom), 0644))

	require.NoError(t, EnsureConfigFile(tmpDir))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestEnsureFileError(t *testing.T) {
	tmpDir := t.TempDir()
	// config dir is missing
	err := EnsureFieldsFile(tmpDir)
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.TemplateWriteError, gnErr.Code)
}

func TestConfigReadError(t *testing.T) {
	cause := errors.New("permission denied")
	err := ConfigReadError("/tmp/config.yaml", cause)

	gnErr, ok := err.(*gn.Error)
	require.True(t, ok)
	assert.Equal(t, errcode.ConfigReadError, gnErr.Code)
	assert.Equal(t, []any{"/tmp/config.yaml"}, gnErr.Vars)
	assert.ErrorIs(t, gnErr.Err, cause)
}
