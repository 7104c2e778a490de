package profiling

import (
	"math"
	"testing"

	"gopnad/domain/core"
	"gopnad/domain/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTable(t *testing.T) *table.Table {
	nan := math.NaN()
	tbl, err := table.New(
		table.NewNumeric("income", []float64{100, 200, nan, 400, 300}),
		table.NewCategorical("gender", []string{"Male", "Female", "Female", "", "Male"}, []string{"Male", "Female"}),
		table.NewNumeric("weight", []float64{1, 3, 2, 1, nan}),
	)
	require.NoError(t, err)
	return tbl
}

func TestSummarize_Unweighted(t *testing.T) {
	summaries, err := Summarize(sampleTable(t), "")
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	income := summaries[0]
	assert.Equal(t, "income", income.Name)
	assert.Equal(t, "numeric", income.Type)
	assert.Equal(t, 5, income.Rows)
	assert.Equal(t, 1, income.Missing)
	require.NotNil(t, income.Numeric)
	assert.Equal(t, 4, income.Numeric.Count)
	assert.InDelta(t, 250, income.Numeric.Mean, 1e-9)
	assert.InDelta(t, 250, income.Numeric.Median, 1e-9)
	assert.Equal(t, 100.0, income.Numeric.Min)
	assert.Equal(t, 400.0, income.Numeric.Max)
	assert.Nil(t, income.Numeric.WeightedMean)

	gender := summaries[1]
	assert.Equal(t, 1, gender.Missing)
	require.Len(t, gender.Categories, 2)
	assert.Equal(t, CategoryShare{Label: "Male", Count: 2, Share: 0.5}, gender.Categories[0])
	assert.Equal(t, CategoryShare{Label: "Female", Count: 2, Share: 0.5}, gender.Categories[1])
}

func TestSummarize_Weighted(t *testing.T) {
	summaries, err := Summarize(sampleTable(t), "weight")
	require.NoError(t, err)

	income := summaries[0].Numeric
	require.NotNil(t, income.WeightedMean)
	// rows with usable weight and value: 100 (1), 200 (3), 400 (1)
	assert.InDelta(t, 5.0, *income.TotalWeight, 1e-9)
	assert.InDelta(t, 220.0, *income.WeightedMean, 1e-9)
	assert.InDelta(t, 200.0, *income.WeightedMedian, 1e-9)

	gender := summaries[1].Categories
	require.Len(t, gender, 2)
	assert.Equal(t, "Male", gender[0].Label)
	assert.InDelta(t, 1.0, gender[0].Weight, 1e-9)
	assert.InDelta(t, 1.0/6, gender[0].Share, 1e-9)
	assert.InDelta(t, 5.0, gender[1].Weight, 1e-9)

	// the weight column itself is summarised unweighted
	assert.Nil(t, summaries[2].Numeric.WeightedMean)
}

func TestSummarize_UnknownWeight(t *testing.T) {
	_, err := Summarize(sampleTable(t), "peso")
	assert.ErrorIs(t, err, core.ErrUnknownColumn)
}

func TestSummarizeColumn_AllMissing(t *testing.T) {
	s, err := SummarizeColumn(table.Missing("x", table.Numeric, 3), nil)
	require.NoError(t, err)
	assert.Equal(t, 3, s.Missing)
	assert.Equal(t, 0, s.Numeric.Count)
	assert.Equal(t, 0.0, s.Numeric.Mean)
}

func TestDescribeCategories_UnexpectedLabels(t *testing.T) {
	out := describeCategories([]string{"b", "z", "a", "y"}, nil, []string{"b"})
	labels := make([]string, len(out))
	for i, c := range out {
		labels[i] = c.Label
	}
	assert.Equal(t, []string{"b", "a", "y", "z"}, labels)
	assert.InDelta(t, 0.25, out[0].Share, 1e-9)
}

func TestSummarizeColumn_ShortSamples(t *testing.T) {
	tests := []struct {
		values        []float64
		q25, med, q75 float64
	}{
		{[]float64{42}, 42, 42, 42},
		{[]float64{20, 10}, 10, 15, 20},
		{[]float64{30, 10, 20}, 10, 20, 30},
		{[]float64{40, 10, 30, 20}, 10, 25, 30},
	}

	for _, test := range tests {
		s, err := SummarizeColumn(table.NewNumeric("age", test.values), nil)
		require.NoError(t, err, "n=%d", len(test.values))
		require.NotNil(t, s.Numeric)
		assert.Equal(t, len(test.values), s.Numeric.Count)
		assert.InDelta(t, test.q25, s.Numeric.Q25, 1e-9, "q25 n=%d", len(test.values))
		assert.InDelta(t, test.med, s.Numeric.Median, 1e-9, "median n=%d", len(test.values))
		assert.InDelta(t, test.q75, s.Numeric.Q75, 1e-9, "q75 n=%d", len(test.values))
	}
}
