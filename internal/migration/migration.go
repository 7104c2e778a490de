package migration

import (
	"context"

	"gopnad/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// MigrationRunner handles database schema migrations
type MigrationRunner struct {
	version string
}

// NewRunner creates a new migration runner
func NewRunner() *MigrationRunner {
	return &MigrationRunner{
		version: "1.1.0",
	}
}

// Version returns the migration version
func (r *MigrationRunner) Version() string {
	return r.version
}

// Run executes all database migrations in the correct order
func (r *MigrationRunner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createColumnCacheTable(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create column_cache table")
	}

	if err := r.addColumnCacheSize(ctx, db); err != nil {
		return errors.Wrap(err, "failed to add column_cache columns")
	}

	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}

	return nil
}

func (r *MigrationRunner) createColumnCacheTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS column_cache (
			kind VARCHAR(16) NOT NULL CHECK (kind IN ('person', 'household')),
			year INTEGER NOT NULL,
			name VARCHAR(255) NOT NULL,
			col_type VARCHAR(16) NOT NULL,
			row_count INTEGER NOT NULL,
			payload BYTEA NOT NULL,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			PRIMARY KEY (kind, year, name)
		)
	`)
	return err
}

// size_bytes was added after the first release of the table.
func (r *MigrationRunner) addColumnCacheSize(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM information_schema.columns
				WHERE table_name = 'column_cache' AND column_name = 'size_bytes'
			) THEN
				ALTER TABLE column_cache ADD COLUMN size_bytes BIGINT NOT NULL DEFAULT 0;
			END IF;
		END $$;
	`)
	return err
}

func (r *MigrationRunner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_column_cache_name ON column_cache(name)`,
		`CREATE INDEX IF NOT EXISTS idx_column_cache_kind_year ON column_cache(kind, year)`,
	}
	for _, stmt := range indexes {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
