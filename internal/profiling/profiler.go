package profiling

import (
	"fmt"
	"math"

	"gopnad/domain/core"
	"gopnad/domain/table"
)

// ColumnSummary describes one column of a loaded table.
type ColumnSummary struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Rows       int             `json:"rows"`
	Missing    int             `json:"missing"`
	Numeric    *NumericSummary `json:"numeric,omitempty"`
	Categories []CategoryShare `json:"categories,omitempty"`
}

// Summarize describes every column of tbl. When weight is not empty the
// named numeric column weights the rows; rows with a missing or negative
// weight are left out of the weighted statistics.
func Summarize(tbl *table.Table, weight string) ([]ColumnSummary, error) {
	var weights []float64
	if weight != "" {
		col, ok := tbl.Column(weight)
		if !ok {
			return nil, fmt.Errorf("%w: weight %q", core.ErrUnknownColumn, weight)
		}
		if col.Type != table.Numeric {
			return nil, fmt.Errorf("weight column %q is not numeric", weight)
		}
		weights = col.Floats
	}

	out := make([]ColumnSummary, 0, tbl.NumColumns())
	for _, col := range tbl.Columns() {
		if weight != "" && col.Name == weight {
			s, err := SummarizeColumn(col, nil)
			if err != nil {
				return nil, err
			}
			out = append(out, s)
			continue
		}
		s, err := SummarizeColumn(col, weights)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// SummarizeColumn describes col, weighting rows by weights when non-nil.
func SummarizeColumn(col *table.Column, weights []float64) (ColumnSummary, error) {
	summary := ColumnSummary{
		Name:    col.Name,
		Type:    col.Type.String(),
		Rows:    col.Len(),
		Missing: col.CountMissing(),
	}
	if weights != nil && len(weights) != col.Len() {
		return summary, fmt.Errorf("%w: %s has %d rows, weight has %d", core.ErrLengthMismatch, col.Name, col.Len(), len(weights))
	}

	switch col.Type {
	case table.Numeric:
		data := make([]float64, 0, col.Len()-summary.Missing)
		var wdata, wvals []float64
		for i, v := range col.Floats {
			if math.IsNaN(v) {
				continue
			}
			data = append(data, v)
			if weights != nil && usableWeight(weights[i]) {
				wdata = append(wdata, v)
				wvals = append(wvals, weights[i])
			}
		}
		numeric, err := describeNumeric(data)
		if err != nil {
			return summary, fmt.Errorf("summarize %s: %w", col.Name, err)
		}
		if weights != nil {
			numeric.addWeighted(wdata, wvals)
		}
		summary.Numeric = numeric

	case table.Categorical:
		labels := make([]string, 0, col.Len()-summary.Missing)
		var w []float64
		for i, label := range col.Labels {
			if label == "" {
				continue
			}
			if weights != nil {
				if !usableWeight(weights[i]) {
					continue
				}
				w = append(w, weights[i])
			}
			labels = append(labels, label)
		}
		if weights != nil && w == nil {
			w = []float64{}
		}
		summary.Categories = describeCategories(labels, w, col.Levels)
	}
	return summary, nil
}

func usableWeight(w float64) bool {
	return !math.IsNaN(w) && w >= 0
}
