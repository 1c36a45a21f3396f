package schema

import (
	"context"

	"gorm.io/gorm"
)

// Models lists tables that export keeps in PostgreSQL.
func Models() []any {
	return []any{&AccessionMetadata{}}
}

// Migrate creates missing export tables and adds missing columns. It never
// drops data.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(Models()...)
}
