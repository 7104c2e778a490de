// Package filestore persists cached columns as files under
// <dir>/<kind>/<year>/<column>.col.
package filestore

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/ports"
)

const ext = ".col"

// Store is a ports.ColumnStore backed by the local filesystem.
type Store struct {
	dir string
}

func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key ports.ColumnKey) (string, error) {
	if key.Column == "" || strings.ContainsAny(key.Column, `/\`) || strings.HasPrefix(key.Column, ".") {
		return "", fmt.Errorf("invalid column name %q", key.Column)
	}
	return filepath.Join(s.dir, string(key.Kind), strconv.Itoa(key.Year), key.Column+ext), nil
}

func (s *Store) Get(_ context.Context, key ports.ColumnKey) (*table.Column, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", core.ErrCacheMiss, key)
		}
		return nil, err
	}
	col, err := table.UnmarshalColumn(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return col, nil
}

// Put writes the column to a temporary file and renames it into place so
// readers never see a partial payload.
func (s *Store) Put(_ context.Context, key ports.ColumnKey, col *table.Column) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	data, err := table.MarshalColumn(col)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) Delete(_ context.Context, key ports.ColumnKey) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List walks the cache directory. Files that do not decode are skipped.
func (s *Store) List(ctx context.Context) ([]ports.ColumnEntry, error) {
	var out []ports.ColumnEntry
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ext) {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return nil
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		if len(parts) != 3 {
			return nil
		}
		kind, err := survey.ParseKind(parts[0])
		if err != nil {
			return nil
		}
		year, err := strconv.Atoi(parts[1])
		if err != nil {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		col, err := table.UnmarshalColumn(data)
		if err != nil {
			return nil
		}
		out = append(out, ports.ColumnEntry{
			ColumnKey: ports.ColumnKey{Kind: kind, Year: year, Column: strings.TrimSuffix(parts[2], ext)},
			Type:      col.Type.String(),
			Rows:      col.Len(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime(),
		})
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return out, nil
}
