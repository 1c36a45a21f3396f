package iofs

import (
	"fmt"
	"runtime"

	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/gn"
)

// DirError reports a directory of accmeta that cannot be created.
func DirError(dir string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DirError,
		Msg: `Cannot create directory <em>%s</em>

Check that the home directory is writable or set HOME to another place.`,
		Vars: []any{dir},
		Err:  fmt.Errorf("from %s: mkdir %s: %w", fn.Name(), dir, err),
	}
}

// TemplateWriteError reports a default file (config.yaml or fields.yaml)
// that cannot be written.
func TemplateWriteError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.TemplateWriteError,
		Msg:  "Cannot write default settings to <em>%s</em>",
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: write template %s: %w", fn.Name(), path, err),
	}
}

// ConfigReadError reports a config.yaml that cannot be read or parsed.
func ConfigReadError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.ConfigReadError,
		Msg: `Cannot load settings from <em>%s</em>

Fix the YAML or remove the file to get defaults back.`,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: read config %s: %w", fn.Name(), path, err),
	}
}
