package cache

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func key(col string) ports.ColumnKey {
	return ports.ColumnKey{Kind: survey.Person, Year: 2001, Column: col}
}

func numeric(name string, values ...float64) *table.Column {
	return table.NewNumeric(name, values)
}

func TestMemory_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(4)
	require.NoError(t, m.Put(ctx, key("age"), numeric("age", 1, 2)))

	got, err := m.Get(ctx, key("age"))
	require.NoError(t, err)
	got.Floats[0] = 99

	again, err := m.Get(ctx, key("age"))
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, again.Floats)

	_, err = m.Get(ctx, key("income"))
	assert.True(t, core.IsCacheMiss(err))
}

func TestMemory_EvictsLightestEntry(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(2)
	require.NoError(t, m.Put(ctx, key("a"), numeric("a", 1)))
	require.NoError(t, m.Put(ctx, key("b"), numeric("b", 2)))

	// a hit makes a heavier than b
	_, err := m.Get(ctx, key("a"))
	require.NoError(t, err)

	require.NoError(t, m.Put(ctx, key("c"), numeric("c", 3)))
	assert.Equal(t, 2, m.Len())

	_, err = m.Get(ctx, key("b"))
	assert.True(t, core.IsCacheMiss(err))
	_, err = m.Get(ctx, key("a"))
	assert.NoError(t, err)
	_, err = m.Get(ctx, key("c"))
	assert.NoError(t, err)
}

func TestMemory_WithoutHitsEvictsOldest(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(3)
	for _, name := range []string{"a", "b", "c", "d"} {
		require.NoError(t, m.Put(ctx, key(name), numeric(name, 1)))
	}
	_, err := m.Get(ctx, key("a"))
	assert.True(t, core.IsCacheMiss(err))
}

func TestMemory_RescalesWeights(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(1000)
	for i := 0; i < 600; i++ {
		require.NoError(t, m.Put(ctx, key(fmt.Sprint(i)), numeric("x", 1)))
	}
	assert.Less(t, m.weight, weightCeiling*weightGrowth)
	assert.False(t, math.IsInf(m.weight, 0))
	assert.Equal(t, 600, m.Len())

	m.capacity = 600
	require.NoError(t, m.Put(ctx, key("new"), numeric("x", 1)))
	_, err := m.Get(ctx, key("0"))
	assert.True(t, core.IsCacheMiss(err))
	_, err = m.Get(ctx, key("599"))
	assert.NoError(t, err)
}

func TestMemory_ZeroCapacity(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(0)
	require.NoError(t, m.Put(ctx, key("a"), numeric("a", 1)))
	assert.Equal(t, 0, m.Len())
}

func TestMemory_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(10)
	require.NoError(t, m.Put(ctx, ports.ColumnKey{Kind: survey.Household, Year: 2001, Column: "rooms"}, numeric("rooms", 1, 2)))
	require.NoError(t, m.Put(ctx, key("gender"), table.NewCategorical("gender", []string{"MALE"}, nil)))
	require.NoError(t, m.Put(ctx, ports.ColumnKey{Kind: survey.Household, Year: 1999, Column: "rooms"}, numeric("rooms", 1)))

	entries, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "household1999/rooms", entries[0].ColumnKey.String())
	assert.Equal(t, "household2001/rooms", entries[1].ColumnKey.String())
	assert.Equal(t, int64(16), entries[1].SizeBytes)
	assert.Equal(t, "categorical", entries[2].Type)

	require.NoError(t, m.Delete(ctx, key("gender")))
	assert.Equal(t, 2, m.Len())
	m.Clear()
	assert.Equal(t, 0, m.Len())
}

type mockStore struct {
	mock.Mock
}

func (s *mockStore) Get(ctx context.Context, k ports.ColumnKey) (*table.Column, error) {
	args := s.Called(ctx, k)
	col, _ := args.Get(0).(*table.Column)
	return col, args.Error(1)
}

func (s *mockStore) Put(ctx context.Context, k ports.ColumnKey, col *table.Column) error {
	return s.Called(ctx, k, col).Error(0)
}

func (s *mockStore) Delete(ctx context.Context, k ports.ColumnKey) error {
	return s.Called(ctx, k).Error(0)
}

func (s *mockStore) List(ctx context.Context) ([]ports.ColumnEntry, error) {
	args := s.Called(ctx)
	entries, _ := args.Get(0).([]ports.ColumnEntry)
	return entries, args.Error(1)
}

func TestLayered_ReadThrough(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	store.On("Get", ctx, key("age")).Return(numeric("age", 30), nil).Once()
	store.On("Get", ctx, key("race")).Return(nil, core.ErrCacheMiss)
	store.On("Get", ctx, key("broken")).Return(nil, errors.New("disk on fire"))

	l := NewLayered(NewMemory(8), store, nil)

	col, err := l.Get(ctx, key("age"))
	require.NoError(t, err)
	assert.Equal(t, []float64{30}, col.Floats)

	// served from memory the second time
	_, err = l.Get(ctx, key("age"))
	require.NoError(t, err)

	_, err = l.Get(ctx, key("race"))
	assert.True(t, core.IsCacheMiss(err))
	_, err = l.Get(ctx, key("broken"))
	assert.True(t, core.IsCacheMiss(err))

	store.AssertExpectations(t)
}

func TestLayered_WriteThroughAndDelete(t *testing.T) {
	ctx := context.Background()
	store := &mockStore{}
	col := numeric("age", 1)
	store.On("Put", ctx, key("age"), col).Return(nil)
	store.On("Delete", ctx, key("age")).Return(nil)
	store.On("List", ctx).Return([]ports.ColumnEntry{{ColumnKey: key("age")}}, nil)

	l := NewLayered(NewMemory(8), store, nil)
	require.NoError(t, l.Put(ctx, key("age"), col))
	assert.Equal(t, 1, l.Memory().Len())

	entries, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, l.Delete(ctx, key("age")))
	assert.Equal(t, 0, l.Memory().Len())
	store.AssertExpectations(t)
}

func TestLayered_MemoryOnly(t *testing.T) {
	ctx := context.Background()
	l := NewLayered(nil, nil, nil)
	require.NoError(t, l.Put(ctx, key("age"), numeric("age", 1)))
	_, err := l.Get(ctx, key("age"))
	assert.True(t, core.IsCacheMiss(err))

	l = NewLayered(NewMemory(2), nil, nil)
	require.NoError(t, l.Put(ctx, key("age"), numeric("age", 1)))
	_, err = l.Get(ctx, key("age"))
	assert.NoError(t, err)
	entries, err := l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
