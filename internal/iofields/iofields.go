// Package iofields loads metadata extraction rules from fields.yaml in the
// configuration directory.
package iofields

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/gnames/accmeta/pkg/config"
	"github.com/gnames/accmeta/pkg/extract"
)

type iofields struct {
	cfg *config.Config
}

// New creates a RuleLoader that reads rules from config.FieldsFilePath.
func New(cfg *config.Config) extract.RuleLoader {
	res := iofields{cfg: cfg}
	return &res
}

// Load returns rules from fields.yaml, or default rules if the file does
// not exist.
func (f *iofields) Load() ([]extract.Rule, error) {
	path := config.FieldsFilePath(f.cfg.HomeDir)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Info("Fields file not found, using default rules", "path", path)
		return extract.DefaultRules(), nil
	}
	if err != nil {
		return nil, FieldsConfigError(path, err)
	}

	res, err := extract.LoadRules(data)
	if err != nil {
		return nil, FieldsConfigError(path, err)
	}
	slog.Info("Extraction rules loaded", "path", path, "rules", len(res))
	return res, nil
}
