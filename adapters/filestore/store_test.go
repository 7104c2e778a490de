package filestore

import (
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_PutGetDelete(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	key := ports.ColumnKey{Kind: survey.Person, Year: 2001, Column: "income"}
	_, err = s.Get(ctx, key)
	assert.True(t, core.IsCacheMiss(err))

	require.NoError(t, s.Put(ctx, key, table.NewNumeric("income", []float64{100, math.NaN()})))
	assert.FileExists(t, filepath.Join(dir, "person", "2001", "income.col"))

	col, err := s.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 100.0, col.Floats[0])
	assert.True(t, math.IsNaN(col.Floats[1]))

	// overwriting keeps a single file
	require.NoError(t, s.Put(ctx, key, table.NewNumeric("income", []float64{1, 2})))
	files, err := os.ReadDir(filepath.Join(dir, "person", "2001"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	require.NoError(t, s.Delete(ctx, key))
	require.NoError(t, s.Delete(ctx, key))
	_, err = s.Get(ctx, key)
	assert.True(t, core.IsCacheMiss(err))
}

func TestStore_List(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, ports.ColumnKey{Kind: survey.Person, Year: 2001, Column: "age"}, table.NewNumeric("age", []float64{1, 2, 3})))
	require.NoError(t, s.Put(ctx, ports.ColumnKey{Kind: survey.Household, Year: 1999, Column: "state"},
		table.NewCategorical("state", []string{"RJ"}, []string{"RJ"})))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "person", "2001", "junk.col"), []byte("nope"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README"), []byte("x"), 0o644))

	entries, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byKey := map[string]ports.ColumnEntry{}
	for _, e := range entries {
		byKey[e.ColumnKey.String()] = e
	}
	assert.Equal(t, 3, byKey["person2001/age"].Rows)
	assert.Equal(t, "numeric", byKey["person2001/age"].Type)
	assert.Equal(t, "categorical", byKey["household1999/state"].Type)
	assert.Positive(t, byKey["household1999/state"].SizeBytes)
}

func TestStore_RejectsPathNames(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)
	for _, name := range []string{"", "../x", "a/b", ".hidden"} {
		err := s.Put(context.Background(), ports.ColumnKey{Kind: survey.Person, Year: 2001, Column: name}, table.NewNumeric(name, nil))
		assert.Error(t, err, name)
	}
}
