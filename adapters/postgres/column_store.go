package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gopnad/domain/core"
	"gopnad/domain/table"
	"gopnad/ports"

	"github.com/jmoiron/sqlx"
)

// ColumnStore implements ports.ColumnStore on the column_cache table.
type ColumnStore struct {
	db *sqlx.DB
}

// NewColumnStore creates a PostgreSQL column store
func NewColumnStore(db *sqlx.DB) *ColumnStore {
	return &ColumnStore{db: db}
}

// Get loads and decodes a cached column
func (s *ColumnStore) Get(ctx context.Context, key ports.ColumnKey) (*table.Column, error) {
	var payload []byte
	err := s.db.GetContext(ctx, &payload, `
		SELECT payload
		FROM column_cache
		WHERE kind = $1 AND year = $2 AND name = $3
	`, string(key.Kind), key.Year, key.Column)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrCacheMiss, key)
	}
	if err != nil {
		return nil, err
	}
	return table.UnmarshalColumn(payload)
}

// Put upserts a column
func (s *ColumnStore) Put(ctx context.Context, key ports.ColumnKey, col *table.Column) error {
	payload, err := table.MarshalColumn(col)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO column_cache (kind, year, name, col_type, row_count, size_bytes, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		ON CONFLICT (kind, year, name) DO UPDATE SET
			col_type = EXCLUDED.col_type,
			row_count = EXCLUDED.row_count,
			size_bytes = EXCLUDED.size_bytes,
			payload = EXCLUDED.payload,
			created_at = NOW()
	`, string(key.Kind), key.Year, key.Column, col.Type.String(), col.Len(), len(payload), payload)
	return err
}

// Delete removes a column; deleting an absent column is not an error
func (s *ColumnStore) Delete(ctx context.Context, key ports.ColumnKey) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM column_cache
		WHERE kind = $1 AND year = $2 AND name = $3
	`, string(key.Kind), key.Year, key.Column)
	return err
}

// List describes every cached column without loading payloads
func (s *ColumnStore) List(ctx context.Context) ([]ports.ColumnEntry, error) {
	var entries []ports.ColumnEntry
	err := s.db.SelectContext(ctx, &entries, `
		SELECT kind, year, name, col_type, row_count, size_bytes, created_at
		FROM column_cache
		ORDER BY kind, year, name
	`)
	if err != nil {
		return nil, err
	}
	return entries, nil
}
