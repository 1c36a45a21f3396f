// Package db defines access to the PostgreSQL database that receives
// exported accession metadata.
package db

import (
	"context"

	"github.com/gnames/accmeta/pkg/config"
	"github.com/gnames/accmeta/pkg/schema"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Operator manages the connection pool and bulk loads of records.
// Schema creation is handled by GORM AutoMigrate in ioschema.
type Operator interface {
	// Connect establishes a connection pool to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection pool.
	Close() error

	// Pool returns the underlying pool, nil before Connect.
	Pool() *pgxpool.Pool

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// CopyRecords replaces rows with the same IDs in one transaction and
	// returns the number of copied rows.
	CopyRecords(ctx context.Context, recs []schema.AccessionMetadata) (int, error)
}
