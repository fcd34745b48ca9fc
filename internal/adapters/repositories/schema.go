package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// InitSchema creates the library directory and cache tables.
func InitSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createLibrariesQuery := `
	CREATE TABLE IF NOT EXISTS libraries (
		lib_code TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		region_code TEXT NOT NULL,
		latitude TEXT NOT NULL DEFAULT '',
		longitude TEXT NOT NULL DEFAULT '',
		tel TEXT NOT NULL DEFAULT '',
		homepage TEXT NOT NULL DEFAULT ''
	);
	`

	createRegionCacheQuery := `
	CREATE TABLE IF NOT EXISTS region_cache (
		coord_key TEXT PRIMARY KEY,
		sido TEXT NOT NULL,
		sigungu TEXT NOT NULL,
		dong TEXT NOT NULL,
		code TEXT NOT NULL,
		dtl_code TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`

	// Tables created before district codes existed lack the column.
	addRegionDtlCodeQuery := `
	ALTER TABLE region_cache
	ADD COLUMN IF NOT EXISTS dtl_code TEXT NOT NULL DEFAULT '';
	`

	createLibraryCacheQuery := `
	CREATE TABLE IF NOT EXISTS library_cache (
		region_code TEXT PRIMARY KEY,
		payload JSONB NOT NULL,
		fetched_at TIMESTAMPTZ NOT NULL
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_libraries_region_code
	ON libraries(region_code);
	`

	statements := []string{
		createLibrariesQuery,
		createRegionCacheQuery,
		addRegionDtlCodeQuery,
		createLibraryCacheQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
