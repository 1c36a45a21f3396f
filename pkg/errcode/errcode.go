package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Home directory and settings files
	DirError
	TemplateWriteError
	ConfigReadError
	LogFileError

	// Input errors
	AccessionListError
	EmptyAccessionListError

	// Extraction rules errors
	FieldsConfigError

	// Cache errors
	CacheOpenError
	CacheInitError

	// Output errors
	OutputWriteError
	OutputReadError

	// Database errors
	DBConnectionError
	DBNotConnectedError
	DBTableCheckError
	DBCopyError

	// Schema errors
	SchemaGORMConnectionError
	SchemaMigrateError
)
