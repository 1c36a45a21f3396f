// Package lifecycle defines stages of preparing the export database.
package lifecycle

import (
	"context"
)

// SchemaManager creates or updates tables of the export database with
// GORM AutoMigrate. It is idempotent and safe to run before every export.
type SchemaManager interface {
	Migrate(ctx context.Context) error
}
