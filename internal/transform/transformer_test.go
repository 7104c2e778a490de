package transform

import (
	"context"
	"math"
	"strings"
	"sync"
	"testing"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/internal/cache"
	"gopnad/internal/fields"
	"gopnad/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func portsKey(col string) ports.ColumnKey {
	return ports.ColumnKey{Kind: survey.Person, Year: 2001, Column: col}
}

// fakeSource serves in-memory raw editions and counts reads.
type fakeSource struct {
	mu    sync.Mutex
	data  map[survey.Kind]map[int]map[string][]float64
	reads int
	asked [][]string
}

func newFakeSource() *fakeSource {
	return &fakeSource{data: map[survey.Kind]map[int]map[string][]float64{
		survey.Person: {
			2001: {
				"V0302": {2, 4, 2},
				"V8005": {30, 45, 999},
				"V9532": {1000, -1, 500},
				"V4729": {100, 200, 300},
				"UF":    {33, 35, 53},
				"V9999": {7, 8, 9},
			},
		},
	}}
}

func (s *fakeSource) Years(_ context.Context, kind survey.Kind) ([]int, error) {
	var years []int
	for y := range s.data[kind] {
		years = append(years, y)
	}
	return years, nil
}

func (s *fakeSource) Variables(_ context.Context, kind survey.Kind, year int) ([]string, error) {
	var vars []string
	for v := range s.data[kind][year] {
		vars = append(vars, v)
	}
	return vars, nil
}

func (s *fakeSource) ReadVariables(_ context.Context, kind survey.Kind, year int, names []string) (*table.Table, error) {
	s.mu.Lock()
	s.reads++
	s.asked = append(s.asked, names)
	s.mu.Unlock()

	edition, ok := s.data[kind][year]
	if !ok {
		return nil, core.ErrRawFileNotFound
	}
	rows := 0
	for _, v := range edition {
		rows = len(v)
	}
	tbl := table.Empty(rows)
	for _, name := range names {
		for v, values := range edition {
			if strings.EqualFold(v, name) && !tbl.Has(name) {
				if err := tbl.Add(table.NewNumeric(name, append([]float64(nil), values...))); err != nil {
					return nil, err
				}
			}
		}
	}
	return tbl, nil
}

func assertFloats(t *testing.T, want []float64, col *table.Column) {
	t.Helper()
	require.Len(t, col.Floats, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(col.Floats[i]), "%s row %d: want NaN, got %v", col.Name, i, col.Floats[i])
		} else {
			assert.Equal(t, want[i], col.Floats[i], "%s row %d", col.Name, i)
		}
	}
}

func column(t *testing.T, tbl *table.Table, name string) *table.Column {
	t.Helper()
	col, ok := tbl.Column(name)
	require.True(t, ok, "column %s", name)
	return col
}

func TestLoad_ReturnsExactlyRequestedColumns(t *testing.T) {
	src := newFakeSource()
	tr := New(src, fields.Default(), nil, nil)

	names := []string{"income", "gender", "age", "education_years", "race", "year"}
	tbl, err := tr.Load(context.Background(), survey.Person, 2001, names)
	require.NoError(t, err)

	assert.Equal(t, names, tbl.Names())
	assert.Equal(t, 3, tbl.NumRows())
	assert.Equal(t, 1, src.reads)

	assertFloats(t, []float64{1000, nan, 500}, column(t, tbl, "income"))
	assert.Equal(t, []string{"MALE", "FEMALE", "MALE"}, column(t, tbl, "gender").Labels)
	assertFloats(t, []float64{30, 45, nan}, column(t, tbl, "age"))
	assertFloats(t, []float64{2001, 2001, 2001}, column(t, tbl, "year"))

	// race and education variables are not in the file
	assert.Equal(t, 3, column(t, tbl, "education_years").CountMissing())
	assert.Equal(t, 3, column(t, tbl, "race").CountMissing())
}

func TestLoad_DuplicateNamesCollapse(t *testing.T) {
	tr := New(newFakeSource(), fields.Default(), nil, nil)
	tbl, err := tr.Load(context.Background(), survey.Person, 2001, []string{"age", "weight", "age"})
	require.NoError(t, err)
	assert.Equal(t, []string{"age", "weight"}, tbl.Names())
}

func TestLoad_UnavailableFieldIsMissing(t *testing.T) {
	tr := New(newFakeSource(), fields.Default(), nil, nil)
	tbl, err := tr.Load(context.Background(), survey.Person, 2001, []string{"number_of_children", "state"})
	require.NoError(t, err)

	assert.Equal(t, 3, column(t, tbl, "number_of_children").CountMissing())
	assert.Equal(t, []string{"RJ", "SP", "DF"}, column(t, tbl, "state").Labels)
}

func TestLoad_UsesCacheOnSecondCall(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	store := cache.NewMemory(128)
	tr := New(src, fields.Default(), store, nil)

	first, err := tr.Load(ctx, survey.Person, 2001, []string{"age", "gender", "region"})
	require.NoError(t, err)
	require.Equal(t, 1, src.reads)

	// dependencies are stored too, year never is
	_, err = store.Get(ctx, portsKey("gender_id"))
	assert.NoError(t, err)
	_, err = store.Get(ctx, portsKey("state_id"))
	assert.NoError(t, err)

	second, err := tr.Load(ctx, survey.Person, 2001, []string{"age", "gender", "region", "year"})
	require.NoError(t, err)
	assert.Equal(t, 1, src.reads, "raw file read again")
	assert.Equal(t, []string{"age", "gender", "region", "year"}, second.Names())
	assertFloats(t, column(t, first, "age").Floats, column(t, second, "age"))
	assert.Equal(t, column(t, first, "region").Labels, column(t, second, "region").Labels)
	assertFloats(t, []float64{2001, 2001, 2001}, column(t, second, "year"))

	_, err = store.Get(ctx, portsKey("year"))
	assert.True(t, core.IsCacheMiss(err))
}

func TestLoad_FieldsOnMissingVariablesAreNotCached(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	store := cache.NewMemory(128)
	tr := New(src, fields.Default(), store, nil)

	// V0404 (race) is not in the file yet
	tbl, err := tr.Load(ctx, survey.Person, 2001, []string{"race", "income"})
	require.NoError(t, err)
	assert.Equal(t, 3, column(t, tbl, "race").CountMissing())

	for _, name := range []string{"race_id", "race", "income"} {
		_, err = store.Get(ctx, portsKey(name))
		assert.True(t, core.IsCacheMiss(err), "%s cached", name)
	}
	// inputs that were read are still cached
	_, err = store.Get(ctx, portsKey("income_work_main_money_fixed"))
	assert.NoError(t, err)

	src.data[survey.Person][2001]["V0404"] = []float64{2, 4, 8}
	tbl, err = tr.Load(ctx, survey.Person, 2001, []string{"race"})
	require.NoError(t, err)
	assert.Equal(t, []string{"WHITE", "BLACK", "BROWN"}, column(t, tbl, "race").Labels)
	_, err = store.Get(ctx, portsKey("race"))
	assert.NoError(t, err)
}

func TestLoad_AbsentInYearStillCachesDependents(t *testing.T) {
	ctx := context.Background()
	catalog := fields.NewCatalog(survey.Person,
		fields.NewRawField("bonus", "", survey.Spec[fields.Source]{
			{Range: survey.Since(1992)},
		}),
		fields.NewRawField("wage", "", survey.Spec[fields.Source]{
			{Range: survey.Since(1992), Value: fields.Source{Var: "V9532"}},
		}),
		fields.NewSumField("pay", "", "wage", "bonus"),
	)
	store := cache.NewMemory(16)
	tr := New(newFakeSource(), fields.Catalogs{survey.Person: catalog}, store, nil)

	tbl, err := tr.Load(ctx, survey.Person, 2001, []string{"pay"})
	require.NoError(t, err)
	assertFloats(t, []float64{1000, nan, 500}, column(t, tbl, "pay"))

	_, err = store.Get(ctx, portsKey("pay"))
	assert.NoError(t, err)
}

func TestLoad_CachedDependenciesAreNotReplanned(t *testing.T) {
	ctx := context.Background()
	src := newFakeSource()
	store := cache.NewMemory(128)
	tr := New(src, fields.Default(), store, nil)

	_, err := tr.Load(ctx, survey.Person, 2001, []string{"gender_id"})
	require.NoError(t, err)

	_, err = tr.Load(ctx, survey.Person, 2001, []string{"gender", "age"})
	require.NoError(t, err)
	require.Equal(t, 2, src.reads)
	assert.Equal(t, []string{"V8005"}, src.asked[1])
}

func TestLoad_RawPassthrough(t *testing.T) {
	tr := New(newFakeSource(), fields.Default(), nil, nil)

	tbl, err := tr.Load(context.Background(), survey.Person, 2001, []string{"v9999", "age"})
	require.NoError(t, err)
	assert.Equal(t, []string{"v9999", "age"}, tbl.Names())
	assertFloats(t, []float64{7, 8, 9}, column(t, tbl, "v9999"))

	_, err = tr.Load(context.Background(), survey.Person, 2001, []string{"age", "V0000"})
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrUnknownColumn)
	assert.True(t, core.IsInputError(err))
}

func TestLoad_EmptyListSelectsCatalogue(t *testing.T) {
	tr := New(newFakeSource(), fields.Default(), nil, nil)
	tbl, err := tr.Load(context.Background(), survey.Person, 2001, nil)
	require.NoError(t, err)
	assert.Equal(t, fields.Person().Names(), tbl.Names())
}

func TestLoad_MissingEdition(t *testing.T) {
	tr := New(newFakeSource(), fields.Default(), nil, nil)
	_, err := tr.Load(context.Background(), survey.Person, 1995, []string{"age"})
	assert.ErrorIs(t, err, core.ErrRawFileNotFound)

	_, err = tr.Load(context.Background(), survey.Kind("firm"), 2001, []string{"age"})
	assert.ErrorIs(t, err, core.ErrInvalidKind)
}

func TestLoad_InvalidCodeFails(t *testing.T) {
	src := newFakeSource()
	src.data[survey.Person][2001]["UF"] = []float64{33, 77, 35}
	tr := New(src, fields.Default(), nil, nil)
	_, err := tr.Load(context.Background(), survey.Person, 2001, []string{"state"})
	assert.ErrorIs(t, err, core.ErrInvalidCode)
}

func TestLoad_StaleCacheDetected(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemory(16)
	require.NoError(t, store.Put(ctx, portsKey("gender_id"), table.NewNumeric("gender_id", []float64{1})))

	tr := New(newFakeSource(), fields.Default(), store, nil)
	_, err := tr.Load(ctx, survey.Person, 2001, []string{"gender", "age"})
	assert.ErrorIs(t, err, core.ErrLengthMismatch)
}

func TestPlan_DetectsCycles(t *testing.T) {
	catalog := fields.NewCatalog(survey.Person,
		fields.NewSumField("a", "", "b"),
		fields.NewSumField("b", "", "c"),
		fields.NewSumField("c", "", "a"),
	)
	_, err := NewPlan(catalog, 2001, []string{"a"}, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrDependencyCycle)
	assert.Contains(t, err.Error(), "[a b c a]")
}

func TestPlan_OrderAndVars(t *testing.T) {
	plan, err := NewPlan(fields.Person(), 2001, []string{"gender", "V1234", "weight"}, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"gender_id", "gender", "weight"}, plan.Order)
	assert.Equal(t, []string{"V0302", "V4729"}, plan.Vars)
	assert.Equal(t, []string{"V1234"}, plan.Passthrough)
	assert.Equal(t, []string{"V0302", "V4729", "V1234"}, plan.ReadList())

	plan, err = NewPlan(fields.Person(), 1983, []string{"race"}, nil)
	require.NoError(t, err)
	assert.True(t, plan.Unavailable["race_id"])
	assert.Empty(t, plan.Vars)
}

func TestPlan_UnknownDependency(t *testing.T) {
	catalog := fields.NewCatalog(survey.Person, fields.NewSumField("a", "", "ghost"))
	_, err := NewPlan(catalog, 2001, []string{"a"}, nil)
	assert.ErrorIs(t, err, core.ErrUnknownColumn)
}
