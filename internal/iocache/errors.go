package iocache

import (
	"fmt"
	"runtime"

	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/gn"
)

func OpenError(path string, err error) error {
	msg := "Cannot open record cache <em>%s</em>"
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheOpenError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot open cache: %w",
			fn.Name(), err),
	}
}

func InitError(path string, err error) error {
	msg := `Cannot create tables of record cache <em>%s</em>

<em>How to fix:</em>
  Remove the file and run again, or use <em>--no-cache</em>`
	vars := []any{path}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.CacheInitError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: cannot create cache tables: %w",
			fn.Name(), err),
	}
}
