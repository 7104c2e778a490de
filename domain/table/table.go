package table

import (
	"fmt"

	"gopnad/domain/core"
)

// Table is an ordered set of equal-length columns.
type Table struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New builds a table from columns, which must share a length and have
// distinct names.
func New(columns ...*Column) (*Table, error) {
	t := &Table{index: make(map[string]int, len(columns)), rows: -1}
	for _, c := range columns {
		if err := t.Add(c); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Empty returns a table with a fixed row count and no columns yet.
func Empty(rows int) *Table {
	return &Table{index: make(map[string]int), rows: rows}
}

// Add appends a column, replacing an existing column of the same name.
func (t *Table) Add(c *Column) error {
	if t.rows >= 0 && c.Len() != t.rows {
		return fmt.Errorf("%w: column %q has %d rows, table has %d", core.ErrLengthMismatch, c.Name, c.Len(), t.rows)
	}
	t.rows = c.Len()
	if i, ok := t.index[c.Name]; ok {
		t.columns[i] = c
		return nil
	}
	t.index[c.Name] = len(t.columns)
	t.columns = append(t.columns, c)
	return nil
}

// NumRows returns the row count, zero for a table without columns.
func (t *Table) NumRows() int {
	if t.rows < 0 {
		return 0
	}
	return t.rows
}

func (t *Table) NumColumns() int {
	return len(t.columns)
}

// Names returns the column names in order.
func (t *Table) Names() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.Name
	}
	return names
}

// Columns returns the columns in order. The slice must not be modified.
func (t *Table) Columns() []*Column {
	return t.columns
}

// Column looks a column up by name.
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// Has reports whether the table holds a column called name.
func (t *Table) Has(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Select returns a table with exactly the named columns, in that order.
// Columns are shared with t.
func (t *Table) Select(names ...string) (*Table, error) {
	out := &Table{index: make(map[string]int, len(names)), rows: t.rows}
	for _, name := range names {
		c, ok := t.Column(name)
		if !ok {
			return nil, fmt.Errorf("%w: %q", core.ErrUnknownColumn, name)
		}
		if _, dup := out.index[name]; dup {
			continue
		}
		out.index[name] = len(out.columns)
		out.columns = append(out.columns, c)
	}
	return out, nil
}

// Head returns the first n rows.
func (t *Table) Head(n int) *Table {
	if n < 0 || n >= t.NumRows() {
		return t
	}
	out := &Table{index: make(map[string]int, len(t.columns)), rows: n}
	for _, c := range t.columns {
		out.index[c.Name] = len(out.columns)
		out.columns = append(out.columns, c.Slice(0, n))
	}
	return out
}

// Row returns row i as a name → value map, with nil for missing values.
func (t *Table) Row(i int) map[string]interface{} {
	row := make(map[string]interface{}, len(t.columns))
	for _, c := range t.columns {
		row[c.Name] = c.Value(i)
	}
	return row
}

// Concat stacks tables that share the same column names, in order.
func Concat(tables ...*Table) (*Table, error) {
	if len(tables) == 0 {
		return Empty(0), nil
	}
	names := tables[0].Names()
	columns := make([]*Column, len(names))
	for i, c := range tables[0].columns {
		columns[i] = c.Clone()
	}
	for _, t := range tables[1:] {
		if t.NumColumns() != len(names) {
			return nil, fmt.Errorf("cannot concat tables with %d and %d columns", len(names), t.NumColumns())
		}
		for i, name := range names {
			c, ok := t.Column(name)
			if !ok {
				return nil, fmt.Errorf("%w: %q missing from table being stacked", core.ErrUnknownColumn, name)
			}
			if err := columns[i].Append(c); err != nil {
				return nil, err
			}
		}
	}
	return New(columns...)
}
