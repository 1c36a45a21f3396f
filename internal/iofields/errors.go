package iofields

import (
	"fmt"
	"runtime"

	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/gn"
)

// FieldsConfigError reports a fields.yaml that cannot be read or holds
// invalid rules.
func FieldsConfigError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.FieldsConfigError,
		Msg: `Extraction rules in <em>%s</em> are not usable

Every rule needs a known field (organism, country, coordinates...),
at least one flat marker or attribute name, and valid glob patterns.
Delete <em>%s</em> to start again from the default rules.`,
		Vars: []any{path, path},
		Err:  fmt.Errorf("from %s: fields rules: %w", fn.Name(), err),
	}
}
