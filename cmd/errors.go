package cmd

import (
	"fmt"
	"runtime"

	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/gn"
)

func accessionListError(path string, err error) error {
	msg := "Cannot read accession list <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.AccessionListError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot read accessions: %w",
			fn.Name(), err),
	}
}

func emptyAccessionListError(path string, err error) error {
	msg := `No accessions found in <em>%s</em>

<em>Expected format:</em> one accession per line, for example
  MN908947.3
  SRR11092064 SRA`
	vars := []any{path}
	return &gn.Error{
		Code: errcode.EmptyAccessionListError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}
