package ports

import (
	"context"
	"fmt"
	"time"

	"gopnad/domain/survey"
	"gopnad/domain/table"
)

// ColumnKey identifies one harmonised column of one survey edition.
type ColumnKey struct {
	Kind   survey.Kind `json:"kind" db:"kind"`
	Year   int         `json:"year" db:"year"`
	Column string      `json:"column" db:"name"`
}

func (k ColumnKey) String() string {
	return fmt.Sprintf("%s%d/%s", k.Kind, k.Year, k.Column)
}

// ColumnEntry describes a stored column without its data.
type ColumnEntry struct {
	ColumnKey
	Type      string    `json:"type" db:"col_type"`
	Rows      int       `json:"rows" db:"row_count"`
	SizeBytes int64     `json:"size_bytes" db:"size_bytes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// ColumnStore persists derived columns between runs.
type ColumnStore interface {
	// Get returns core.ErrCacheMiss when the column is not stored.
	Get(ctx context.Context, key ColumnKey) (*table.Column, error)
	Put(ctx context.Context, key ColumnKey, col *table.Column) error
	Delete(ctx context.Context, key ColumnKey) error
	List(ctx context.Context) ([]ColumnEntry, error)
}
