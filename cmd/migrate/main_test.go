package main

import (
	"context"
	"testing"

	"gopnad/adapters/filestore"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/internal/cache"
	"gopnad/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportColumns(t *testing.T) {
	ctx := context.Background()
	src, err := filestore.New(t.TempDir())
	require.NoError(t, err)

	keys := []ports.ColumnKey{
		{Kind: survey.Person, Year: 2001, Column: "age"},
		{Kind: survey.Household, Year: 2001, Column: "residents"},
	}
	for _, k := range keys {
		require.NoError(t, src.Put(ctx, k, table.NewNumeric(k.Column, []float64{1, 2, 3})))
	}

	dst := cache.NewMemory(10)
	copied, skipped, err := importColumns(ctx, src, dst)
	require.NoError(t, err)
	assert.Equal(t, 2, copied)
	assert.Zero(t, skipped)

	col, err := dst.Get(ctx, keys[1])
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3}, col.Floats)
}
