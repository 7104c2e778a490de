package fields

import (
	"math"
	"testing"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func compute(t *testing.T, f Field, fr *Frame) *table.Column {
	t.Helper()
	col, err := f.Compute(fr)
	require.NoError(t, err)
	require.NotNil(t, col, "field %s unavailable", f.Name())
	fr.Set(col)
	return col
}

func assertFloats(t *testing.T, want, got []float64) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		if math.IsNaN(want[i]) {
			assert.True(t, math.IsNaN(got[i]), "row %d: want NaN, got %v", i, got[i])
		} else {
			assert.Equal(t, want[i], got[i], "row %d", i)
		}
	}
}

func TestSumNA(t *testing.T) {
	tests := []struct {
		name string
		cols [][]float64
		want []float64
	}{
		{"no missing", [][]float64{{1, 2}, {3, 4}}, []float64{4, 6}},
		{"missing counts as zero", [][]float64{{1, nan}, {nan, 4}}, []float64{1, 4}},
		{"all missing stays missing", [][]float64{{nan, 1}, {nan, nan}, {nan, 2}}, []float64{nan, 3}},
		{"single input", [][]float64{{nan, 5}}, []float64{nan, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertFloats(t, tt.want, SumNA(tt.cols...))
		})
	}
	assert.Nil(t, SumNA())
}

func TestRawField(t *testing.T) {
	f := NewRawField("weight", "", survey.Spec[Source]{
		from(survey.Since(1992), "V4729"),
		absent(survey.Year(1991)),
		{Range: survey.Year(1990), Value: Source{Const: true, Value: 7}},
	})

	plan, err := f.Plan(2001)
	require.NoError(t, err)
	assert.Equal(t, []string{"V4729"}, plan.Vars)

	plan, err = f.Plan(1990)
	require.NoError(t, err)
	assert.Empty(t, plan.Vars)

	_, err = f.Plan(1980)
	assert.ErrorIs(t, err, core.ErrNoYearRange)

	fr := NewFrame(survey.Person, 2001, 3)
	fr.SetVar("v4729", []float64{10, -1, 30})
	assertFloats(t, []float64{10, nan, 30}, compute(t, f, fr).Floats)

	constant := NewFrame(survey.Person, 1990, 2)
	assertFloats(t, []float64{7, 7}, compute(t, f, constant).Floats)

	col, err := f.Compute(NewFrame(survey.Person, 1991, 2))
	require.NoError(t, err)
	assert.Nil(t, col)

	col, err = f.Compute(NewFrame(survey.Person, 2002, 2))
	require.NoError(t, err)
	assert.Nil(t, col, "variable missing from the file")
}

func TestIncomeFieldSentinels(t *testing.T) {
	f := NewIncomeField("income_rent", "", survey.Spec[Source]{from(survey.All, "V1267")})
	fr := NewFrame(survey.Person, 2001, 8)
	fr.SetVar("V1267", []float64{100, -1, 999999, 9999999, 99999999, 999999999, 999999999999, 0})
	assertFloats(t, []float64{100, nan, nan, nan, nan, nan, nan, 0}, compute(t, f, fr).Floats)
}

func TestCodedField_Gender(t *testing.T) {
	c := Person()
	gid, _ := c.Field("gender_id")
	gender, _ := c.Field("gender")

	fr := NewFrame(survey.Person, 2001, 4)
	fr.SetVar("V0302", []float64{2, 4, 7, nan})
	ids := compute(t, gid, fr)
	assertFloats(t, []float64{float64(survey.Male), float64(survey.Female), 0, 0}, ids.Floats)

	labels := compute(t, gender, fr)
	assert.Equal(t, table.Categorical, labels.Type)
	assert.Equal(t, []string{"MALE", "FEMALE", "UNKNOWN", "UNKNOWN"}, labels.Labels)
	assert.Equal(t, survey.GenderCategories(), labels.Levels)

	old := NewFrame(survey.Person, 1985, 2)
	old.SetVar("V303", []float64{1, 3})
	assertFloats(t, []float64{float64(survey.Male), float64(survey.Female)}, compute(t, gid, old).Floats)
}

func TestCodedField_StateIsStrict(t *testing.T) {
	c := Person()
	sid, _ := c.Field("state_id")

	fr := NewFrame(survey.Person, 2001, 3)
	fr.SetVar("UF", []float64{33, 99, 98})
	_, err := sid.Compute(fr)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrInvalidCode)
	assert.Contains(t, err.Error(), "[98 99]")

	fr.SetVar("UF", []float64{33, 43, nan})
	ids := compute(t, sid, fr)
	assertFloats(t, []float64{float64(survey.RJ), float64(survey.RS), 0}, ids.Floats)

	state, _ := c.Field("state")
	region, _ := c.Field("region")
	assert.Equal(t, []string{"RJ", "RS", "UNKNOWN"}, compute(t, state, fr).Labels)
	assert.Equal(t, []string{"SUDESTE", "SUL", "UNKNOWN"}, compute(t, region, fr).Labels)
}

func TestRaceUnavailableYears(t *testing.T) {
	race, _ := Person().Field("race_id")
	_, err := race.Plan(1983)
	assert.ErrorIs(t, err, core.ErrNoYearRange)

	fr := NewFrame(survey.Person, 1992, 6)
	fr.SetVar("V0404", []float64{0, 2, 4, 6, 8, 9})
	assertFloats(t, []float64{
		float64(survey.Indigenous), float64(survey.White), float64(survey.Black),
		float64(survey.Asian), float64(survey.Brown), 0,
	}, compute(t, race, fr).Floats)
}

func TestAge(t *testing.T) {
	age, _ := Person().Field("age")

	fr := NewFrame(survey.Person, 1977, 3)
	fr.SetVar("V22", []float64{30, 950, 999})
	assertFloats(t, []float64{30, 27, nan}, compute(t, age, fr).Floats)

	recent := NewFrame(survey.Person, 2005, 2)
	recent.SetVar("V8005", []float64{42, 999})
	assertFloats(t, []float64{42, nan}, compute(t, age, recent).Floats)

	col, err := age.Compute(NewFrame(survey.Person, 2005, 2))
	require.NoError(t, err)
	assert.Nil(t, col)
}

func TestEducationYears(t *testing.T) {
	edu, _ := Person().Field("education_years")

	tests := []struct {
		year     int
		variable string
		raw      []float64
		want     []float64
	}{
		{1977, "V136", []float64{5, 9, 10, -1}, []float64{5, 10, 12, nan}},
		{1985, "V318", []float64{1, 5, 10, 11, 12, 0}, []float64{0, 4, 10, 12, nan, nan}},
		{2001, "V4703", []float64{1, 12, 16, 17}, []float64{0, 11, 15, nan}},
		{2010, "V4803", []float64{5}, []float64{4}},
	}
	for _, tt := range tests {
		fr := NewFrame(survey.Person, tt.year, len(tt.raw))
		fr.SetVar(tt.variable, tt.raw)
		assertFloats(t, tt.want, compute(t, edu, fr).Floats)
	}
}

func TestNumberOfChildren(t *testing.T) {
	f, _ := Person().Field("number_of_children")
	fr := NewFrame(survey.Person, 1984, 5)
	fr.SetVar("V2310", []float64{2, 3, 99, 5, 1})
	fr.SetVar("V2309", []float64{1, 9, 1, 4, -1})
	assertFloats(t, []float64{2, nan, nan, 0, nan}, compute(t, f, fr).Floats)

	_, err := f.Plan(2001)
	assert.ErrorIs(t, err, core.ErrNoYearRange)
}

func TestIncomeWorkUsesDeclaredTotals(t *testing.T) {
	f, _ := Person().Field("income_work")
	plan, err := f.Plan(2001)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"V7122", "V7125"}, plan.Vars)
	assert.Equal(t, []string{"income_work_main", "income_work_other"}, plan.Fields)

	fr := NewFrame(survey.Person, 2001, 3)
	fr.Set(table.NewNumeric("income_work_main", []float64{100, nan, nan}))
	fr.Set(table.NewNumeric("income_work_other", []float64{50, nan, nan}))
	fr.SetVar("V7122", []float64{nan, 30, -1})
	fr.SetVar("V7125", []float64{10, nan, 999999999999})
	assertFloats(t, []float64{160, 30, nan}, compute(t, f, fr).Floats)

	without := NewFrame(survey.Person, 2001, 1)
	without.Set(table.NewNumeric("income_work_main", []float64{100}))
	without.Set(table.NewNumeric("income_work_other", []float64{nan}))
	assertFloats(t, []float64{100}, compute(t, f, without).Floats)
}

func TestIsUrban(t *testing.T) {
	f, _ := Household().Field("is_urban")
	fr := NewFrame(survey.Household, 2001, 4)
	fr.Set(table.NewNumeric("situation", []float64{1, 3, 5, nan}))
	assertFloats(t, []float64{1, 1, 0, nan}, compute(t, f, fr).Floats)
}

func TestYearIsTransient(t *testing.T) {
	f, _ := Person().Field("year")
	assert.True(t, Transient(f))
	fr := NewFrame(survey.Person, 1999, 2)
	assertFloats(t, []float64{1999, 1999}, compute(t, f, fr).Floats)

	income, _ := Person().Field("income")
	assert.False(t, Transient(income))
}
