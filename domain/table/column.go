package table

import (
	"fmt"
	"math"
	"strconv"
)

// ColumnType distinguishes numeric from categorical columns.
type ColumnType uint8

const (
	Numeric ColumnType = iota + 1
	Categorical
)

func (t ColumnType) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	}
	return "unknown"
}

// Column is a named vector of survey values. Numeric columns use NaN for
// missing values; categorical columns use the empty string.
type Column struct {
	Name   string
	Type   ColumnType
	Floats []float64
	Labels []string
	// Levels holds the ordered category set of a categorical column.
	Levels []string
}

// NewNumeric creates a numeric column. The slice is not copied.
func NewNumeric(name string, values []float64) *Column {
	return &Column{Name: name, Type: Numeric, Floats: values}
}

// NewCategorical creates a categorical column. The slices are not copied.
func NewCategorical(name string, labels []string, levels []string) *Column {
	return &Column{Name: name, Type: Categorical, Labels: labels, Levels: levels}
}

// Missing returns an all-missing column of the given type and length.
func Missing(name string, typ ColumnType, n int) *Column {
	if typ == Categorical {
		return NewCategorical(name, make([]string, n), nil)
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = math.NaN()
	}
	return NewNumeric(name, values)
}

// Constant returns a numeric column holding v in every row.
func Constant(name string, v float64, n int) *Column {
	values := make([]float64, n)
	for i := range values {
		values[i] = v
	}
	return NewNumeric(name, values)
}

func (c *Column) Len() int {
	if c.Type == Categorical {
		return len(c.Labels)
	}
	return len(c.Floats)
}

// IsMissing reports whether row i holds no value.
func (c *Column) IsMissing(i int) bool {
	if c.Type == Categorical {
		return c.Labels[i] == ""
	}
	return math.IsNaN(c.Floats[i])
}

// CountMissing returns the number of missing rows.
func (c *Column) CountMissing() int {
	n := 0
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			n++
		}
	}
	return n
}

// String formats row i, using "" for missing values.
func (c *Column) String(i int) string {
	if c.IsMissing(i) {
		return ""
	}
	if c.Type == Categorical {
		return c.Labels[i]
	}
	return strconv.FormatFloat(c.Floats[i], 'f', -1, 64)
}

// Value returns row i as float64, string or nil for missing.
func (c *Column) Value(i int) interface{} {
	if c.IsMissing(i) {
		return nil
	}
	if c.Type == Categorical {
		return c.Labels[i]
	}
	return c.Floats[i]
}

// Rename returns a shallow copy of c under a new name.
func (c *Column) Rename(name string) *Column {
	cp := *c
	cp.Name = name
	return &cp
}

// Clone returns a deep copy of c.
func (c *Column) Clone() *Column {
	cp := &Column{Name: c.Name, Type: c.Type}
	if c.Floats != nil {
		cp.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Labels != nil {
		cp.Labels = append([]string(nil), c.Labels...)
	}
	if c.Levels != nil {
		cp.Levels = append([]string(nil), c.Levels...)
	}
	return cp
}

// Slice returns rows [from, to) sharing the underlying storage.
func (c *Column) Slice(from, to int) *Column {
	cp := *c
	if c.Type == Categorical {
		cp.Labels = c.Labels[from:to]
	} else {
		cp.Floats = c.Floats[from:to]
	}
	return &cp
}

// Append adds the rows of other, which must have the same type.
func (c *Column) Append(other *Column) error {
	if other.Type != c.Type {
		return fmt.Errorf("cannot append %s column %q to %s column %q", other.Type, other.Name, c.Type, c.Name)
	}
	if c.Type == Categorical {
		c.Labels = append(c.Labels, other.Labels...)
		c.Levels = mergeLevels(c.Levels, other.Levels)
	} else {
		c.Floats = append(c.Floats, other.Floats...)
	}
	return nil
}

func mergeLevels(a, b []string) []string {
	seen := make(map[string]bool, len(a))
	for _, l := range a {
		seen[l] = true
	}
	out := a
	for _, l := range b {
		if !seen[l] {
			out = append(out, l)
			seen[l] = true
		}
	}
	return out
}
