package profiling

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"
)

// NumericSummary describes the distribution of the observed values of a
// numeric column. Weighted fields are set only when a weight column was given.
type NumericSummary struct {
	Count    int     `json:"count"`
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std"`
	Min      float64 `json:"min"`
	Q25      float64 `json:"q25"`
	Median   float64 `json:"median"`
	Q75      float64 `json:"q75"`
	Max      float64 `json:"max"`
	Skewness float64 `json:"skewness"`

	TotalWeight    *float64 `json:"total_weight,omitempty"`
	WeightedMean   *float64 `json:"weighted_mean,omitempty"`
	WeightedStdDev *float64 `json:"weighted_std,omitempty"`
	WeightedMedian *float64 `json:"weighted_median,omitempty"`
}

// describeNumeric summarises data, which must not contain NaN.
func describeNumeric(data []float64) (*NumericSummary, error) {
	summary := &NumericSummary{Count: len(data)}
	if len(data) == 0 {
		return summary, nil
	}

	var err error
	if summary.Mean, err = stats.Mean(data); err != nil {
		return nil, err
	}
	if summary.StdDev, err = stats.StandardDeviationSample(data); err != nil {
		return nil, err
	}
	if summary.Min, err = stats.Min(data); err != nil {
		return nil, err
	}
	if summary.Max, err = stats.Max(data); err != nil {
		return nil, err
	}
	if summary.Median, err = stats.Median(data); err != nil {
		return nil, err
	}
	// stats.Percentile rejects samples shorter than four values.
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	summary.Q25 = stat.Quantile(0.25, stat.Empirical, sorted, nil)
	summary.Q75 = stat.Quantile(0.75, stat.Empirical, sorted, nil)
	summary.Skewness = calculateSkewness(data, summary.Mean, summary.StdDev)
	if math.IsNaN(summary.StdDev) {
		summary.StdDev = 0
	}
	return summary, nil
}

// addWeighted fills the weighted fields from paired values and weights.
func (s *NumericSummary) addWeighted(data, weights []float64) {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	s.TotalWeight = &total
	if len(data) == 0 || total <= 0 {
		return
	}

	mean := stat.Mean(data, weights)
	std := 0.0
	if total > 1 {
		std = stat.StdDev(data, weights)
	}

	x := append([]float64(nil), data...)
	w := append([]float64(nil), weights...)
	stat.SortWeighted(x, w)
	median := stat.Quantile(0.5, stat.Empirical, x, w)

	s.WeightedMean = &mean
	s.WeightedStdDev = &std
	s.WeightedMedian = &median
}

// calculateSkewness computes sample skewness using the adjusted Fisher-Pearson coefficient
func calculateSkewness(data []float64, mean, stdDev float64) float64 {
	if len(data) < 3 || stdDev == 0 || math.IsNaN(stdDev) {
		return 0
	}

	n := float64(len(data))
	sumCubedDeviations := 0.0
	for _, x := range data {
		deviation := (x - mean) / stdDev
		sumCubedDeviations += deviation * deviation * deviation
	}

	return sumCubedDeviations * n / ((n - 1) * (n - 2))
}

// CategoryShare is the frequency of one category.
type CategoryShare struct {
	Label  string  `json:"label"`
	Count  int     `json:"count"`
	Weight float64 `json:"weight,omitempty"`
	Share  float64 `json:"share"`
}

// describeCategories counts labels, keeping the order of levels and then
// appending unexpected labels alphabetically. Shares are weighted when
// weights is non-nil.
func describeCategories(labels []string, weights []float64, levels []string) []CategoryShare {
	index := make(map[string]int, len(levels))
	out := make([]CategoryShare, 0, len(levels))
	for _, level := range levels {
		index[level] = len(out)
		out = append(out, CategoryShare{Label: level})
	}

	var extra []string
	total := 0.0
	for i, label := range labels {
		j, ok := index[label]
		if !ok {
			j = len(out)
			index[label] = j
			out = append(out, CategoryShare{Label: label})
			extra = append(extra, label)
		}
		out[j].Count++
		w := 1.0
		if weights != nil {
			w = weights[i]
			out[j].Weight += w
		}
		total += w
	}

	for i := range out {
		mass := float64(out[i].Count)
		if weights != nil {
			mass = out[i].Weight
		}
		if total > 0 {
			out[i].Share = mass / total
		}
	}

	if len(extra) > 0 {
		tail := out[len(levels):]
		sort.SliceStable(tail, func(a, b int) bool { return tail[a].Label < tail[b].Label })
	}
	return out
}
