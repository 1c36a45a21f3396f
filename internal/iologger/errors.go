package iologger

import (
	"fmt"
	"runtime"

	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/gn"
)

// LogFileError reports a log file that cannot be opened. Setting
// log.destination to stderr avoids the file.
func LogFileError(path string, err error) error {
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.LogFileError,
		Msg: `Cannot open log file <em>%s</em>

Use <em>ACCMETA_LOG_DESTINATION=stderr</em> to log without a file.`,
		Vars: []any{path},
		Err:  fmt.Errorf("from %s: open log %s: %w", fn.Name(), path, err),
	}
}
