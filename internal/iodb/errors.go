package iodb

import (
	"fmt"
	"runtime"

	"github.com/gnames/accmeta/pkg/errcode"
	"github.com/gnames/gn"
)

// ConnectionError is returned when database connection fails.
func ConnectionError(
	host string,
	port int,
	database, user string,
	err error,
) error {
	msg := `Cannot connect to PostgreSQL database

<em>Possible causes:</em>
  - PostgreSQL is not running
  - Database configuration is incorrect

<em>How to fix:</em>
  1. Check if PostgreSQL is running:
     <em>pg_isready -h %s -p %d</em>
  2. Verify database exists:
     <em>psql -h %s -U %s -l</em>
  3. Check <em>database</em> section of
     <em>~/.config/accmeta/config.yaml</em> or ACCMETA_DATABASE_* variables`

	vars := []any{host, port, host, user}
	pc, _, _, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	return &gn.Error{
		Code: errcode.DBConnectionError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("from %s: failed to connect to %s:%d/%s: %w",
			fn.Name(), host, port, database, err),
	}
}

// NotConnectedError is returned when an operation runs before Connect.
func NotConnectedError() error {
	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  "Database operation attempted without connection",
		Err:  fmt.Errorf("not connected to database"),
	}
}

// TableCheckError is returned when a table existence check fails.
func TableCheckError(table string, err error) error {
	msg := "Cannot check if table <em>%s</em> exists"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBTableCheckError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to check table %s: %w", table, err),
	}
}

// CopyError is returned when records cannot be loaded.
func CopyError(table string, err error) error {
	msg := `Cannot copy records to <em>%s</em>

<em>How to fix:</em>
  1. Run <em>accmeta export</em> again, the table is created if needed
  2. Check database user has INSERT and DELETE permissions`
	vars := []any{table}
	return &gn.Error{
		Code: errcode.DBCopyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to copy records to %s: %w", table, err),
	}
}
