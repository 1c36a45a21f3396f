// Package iocache keeps resolved records in a local SQLite database, so
// repeated runs over the same accessions do not query remote services
// again.
package iocache

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/gnames/accmeta/pkg/accession"
	"github.com/gnames/accmeta/pkg/record"
	"github.com/gnames/accmeta/pkg/schema"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
)

// Cache implements batch.Cache with bun over SQLite.
type Cache struct {
	db       *bun.DB
	ttl      time.Duration
	settings string
	runID    string
	now      func() time.Time
}

// Open opens or creates the cache database at path. Records older than
// ttl are ignored, zero ttl keeps records forever. Records stored under
// other settings are ignored as well. With debug every query is logged
// (also enabled by BUNDEBUG environment variable).
func Open(
	ctx context.Context,
	path string,
	ttl time.Duration,
	settings string,
	debug bool,
) (*Cache, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, OpenError(path, err)
	}
	// SQLite allows one writer at a time
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	db.AddQueryHook(bundebug.NewQueryHook(
		bundebug.WithEnabled(debug),
		bundebug.FromEnv("BUNDEBUG"),
	))

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err = db.ExecContext(ctx, p); err != nil {
			db.Close()
			return nil, OpenError(path, err)
		}
	}

	_, err = db.NewCreateTable().
		Model((*recordRow)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		db.Close()
		return nil, InitError(path, err)
	}
	if err = addSettingsColumn(ctx, db); err != nil {
		db.Close()
		return nil, InitError(path, err)
	}

	res := &Cache{
		db:       db,
		ttl:      ttl,
		settings: settings,
		runID:    uuid.NewString(),
		now:      time.Now,
	}
	slog.Info("Record cache opened", "path", path, "run_id", res.runID,
		"settings", settings)
	return res, nil
}

// addSettingsColumn upgrades databases created before records kept their
// settings. Their rows have empty settings and are never used.
func addSettingsColumn(ctx context.Context, db *bun.DB) error {
	var n int
	err := db.NewRaw(
		"SELECT COUNT(*) FROM pragma_table_info('records') WHERE name = 'settings'",
	).Scan(ctx, &n)
	if err != nil || n > 0 {
		return err
	}
	_, err = db.NewAddColumn().
		Model((*recordRow)(nil)).
		ColumnExpr("settings VARCHAR").
		Exec(ctx)
	return err
}

// Get returns a cached record of acc. Expired, missing, unreadable records
// and records stored under other settings are reported as absent.
func (c *Cache) Get(
	ctx context.Context,
	acc accession.Accession,
) (record.MetadataRecord, bool) {
	row := new(recordRow)
	err := c.db.NewSelect().
		Model(row).
		Where("id = ?", schema.RecordID(acc.ID, acc.Source)).
		Scan(ctx)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			slog.Warn("Cannot read cached record", "accession", acc.ID, "error", err)
		}
		return record.MetadataRecord{}, false
	}

	if row.Settings != c.settings {
		slog.Debug("Cached record has other settings", "accession", acc.ID,
			"settings", row.Settings)
		return record.MetadataRecord{}, false
	}

	if c.ttl > 0 && c.now().Sub(row.UpdatedAt) > c.ttl {
		slog.Debug("Cached record expired", "accession", acc.ID,
			"updated_at", row.UpdatedAt)
		return record.MetadataRecord{}, false
	}

	res, err := record.FromRow(row.values())
	if err != nil {
		slog.Warn("Cannot convert cached record", "accession", acc.ID, "error", err)
		return record.MetadataRecord{}, false
	}
	return res, true
}

// Put inserts or replaces the record.
func (c *Cache) Put(ctx context.Context, rec record.MetadataRecord) error {
	row := newRecordRow(rec.Row())
	row.ID = schema.RecordID(rec.Accession, rec.Source)
	row.Settings = c.settings
	row.RunID = c.runID
	row.UpdatedAt = c.now().UTC()

	q := c.db.NewInsert().
		Model(row).
		On("CONFLICT (id) DO UPDATE")
	for _, col := range updateColumns {
		q = q.Set("? = EXCLUDED.?", bun.Ident(col), bun.Ident(col))
	}
	_, err := q.Exec(ctx)
	return err
}

// Close closes the database.
func (c *Cache) Close() error {
	return c.db.Close()
}

