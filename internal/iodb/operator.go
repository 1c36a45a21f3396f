// Package iodb implements database operations using pgxpool.
// This is an impure I/O package that implements contracts
// defined in pkg/.
package iodb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/accmeta/pkg/config"
	"github.com/gnames/accmeta/pkg/db"
	"github.com/gnames/accmeta/pkg/schema"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgxOperator implements db.Operator interface using
// pgxpool for connection pooling.
type pgxOperator struct {
	pool      *pgxpool.Pool
	batchSize int
}

// NewPgxOperator creates a new database operator
// (without connecting).
func NewPgxOperator() db.Operator {
	return &pgxOperator{}
}

// Connect establishes a connection pool to PostgreSQL.
func (p *pgxOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	poolConfig, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	poolConfig.MaxConns = 4
	poolConfig.MinConns = 1

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return ConnectionError(cfg.Host, cfg.Port,
			cfg.Database, cfg.User, err)
	}

	p.pool = pool
	p.batchSize = cfg.BatchSize
	return nil
}

// DSN builds a PostgreSQL connection string.
func DSN(cfg *config.DatabaseConfig) string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)
}

// Close releases all database connections.
func (p *pgxOperator) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// Pool returns the underlying pgxpool.Pool.
func (p *pgxOperator) Pool() *pgxpool.Pool {
	return p.pool
}

// TableExists checks if a table exists in the current
// database.
func (p *pgxOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if p.pool == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`

	var exists bool
	err := p.pool.QueryRow(ctx, query, tableName).Scan(&exists)
	if err != nil {
		return false, TableCheckError(tableName, err)
	}

	return exists, nil
}

// CopyRecords deletes rows with IDs of recs and copies recs in batches,
// all inside one transaction.
func (p *pgxOperator) CopyRecords(
	ctx context.Context,
	recs []schema.AccessionMetadata,
) (int, error) {
	if p.pool == nil {
		return 0, NotConnectedError()
	}
	if len(recs) == 0 {
		return 0, nil
	}

	table := schema.AccessionMetadata{}.TableName()
	columns := schema.Columns(schema.AccessionMetadata{})

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, CopyError(table, err)
	}
	defer tx.Rollback(ctx)

	var total int
	for _, chunk := range batches(recs, p.batchSize) {
		ids := make([]uuid.UUID, len(chunk))
		rows := make([][]any, len(chunk))
		for i, r := range chunk {
			ids[i] = r.UUID()
			rows[i] = r.Values()
		}

		q := fmt.Sprintf("DELETE FROM %s WHERE id = ANY($1)", table)
		if _, err = tx.Exec(ctx, q, ids); err != nil {
			return 0, CopyError(table, err)
		}

		n, err := tx.CopyFrom(
			ctx,
			pgx.Identifier{table},
			columns,
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return 0, CopyError(table, err)
		}
		total += int(n)
		slog.Info("Copied records", "table", table, "rows", n)
	}

	if err = tx.Commit(ctx); err != nil {
		return 0, CopyError(table, err)
	}
	return total, nil
}

// batches splits recs into slices of at most size elements. A
// non-positive size returns one batch.
func batches[T any](recs []T, size int) [][]T {
	if size <= 0 || size >= len(recs) {
		return [][]T{recs}
	}
	var res [][]T
	for start := 0; start < len(recs); start += size {
		end := min(start+size, len(recs))
		res = append(res, recs[start:end])
	}
	return res
}
