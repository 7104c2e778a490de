// Package fields holds the catalogue of harmonised PNAD variables: for every
// survey year, which raw variables feed a field and how they are turned into
// the published values.
package fields

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
)

// Field is one harmonised column of a person or household table.
type Field interface {
	Name() string
	Description() string
	Type() table.ColumnType
	// Plan lists what must be available before Compute can run for year.
	// A core.ErrNoYearRange error means the field does not exist that year.
	Plan(year int) (Plan, error)
	// Compute evaluates the field on a frame that holds every planned
	// dependency. A nil column means the data is unavailable.
	Compute(f *Frame) (*table.Column, error)
}

// Plan is the set of inputs of a field for a given year.
type Plan struct {
	Fields []string
	Vars   []string
}

// Frame is the working set of one (kind, year) evaluation: raw variables
// read from the edition's file and the fields computed so far.
type Frame struct {
	Kind survey.Kind
	Year int

	rows     int
	cols     map[string]*table.Column
	vars     map[string][]float64
	degraded map[string]bool
}

func NewFrame(kind survey.Kind, year, rows int) *Frame {
	return &Frame{
		Kind:     kind,
		Year:     year,
		rows:     rows,
		cols:     make(map[string]*table.Column),
		vars:     make(map[string][]float64),
		degraded: make(map[string]bool),
	}
}

func (f *Frame) Rows() int { return f.rows }

// Set stores a computed field.
func (f *Frame) Set(c *table.Column) { f.cols[c.Name] = c }

// Column returns a computed field.
func (f *Frame) Column(name string) (*table.Column, bool) {
	c, ok := f.cols[name]
	return c, ok
}

// Floats returns the values of a numeric field, or an all-NaN vector when the
// field is absent or categorical.
func (f *Frame) Floats(name string) []float64 {
	if c, ok := f.cols[name]; ok && c.Type == table.Numeric {
		return c.Floats
	}
	return table.Missing(name, table.Numeric, f.rows).Floats
}

// MarkDegraded records that a field holds placeholder values, either because
// its data is unavailable or because one of its inputs is.
func (f *Frame) MarkDegraded(name string) { f.degraded[name] = true }

// Degraded reports whether name was marked by MarkDegraded.
func (f *Frame) Degraded(name string) bool { return f.degraded[name] }

// SetVar stores a raw variable. Names are case-insensitive.
func (f *Frame) SetVar(name string, values []float64) {
	f.vars[strings.ToUpper(name)] = values
}

// Var returns a raw variable, nil when the edition's file lacks it.
func (f *Frame) Var(name string) []float64 {
	return f.vars[strings.ToUpper(name)]
}

func (f *Frame) HasVar(name string) bool {
	_, ok := f.vars[strings.ToUpper(name)]
	return ok
}

// Source says where a field comes from in one range of years: a raw
// variable, a constant, or nowhere.
type Source struct {
	Var   string
	Value float64
	Const bool
}

func (s Source) Absent() bool { return !s.Const && s.Var == "" }

func (s Source) String() string {
	switch {
	case s.Const:
		return "=" + strconv.FormatFloat(s.Value, 'f', -1, 64)
	case s.Var != "":
		return s.Var
	}
	return "-"
}

func from(r survey.Range, name string) survey.Entry[Source] {
	return survey.Entry[Source]{Range: r, Value: Source{Var: name}}
}

func absent(r survey.Range) survey.Entry[Source] {
	return survey.Entry[Source]{Range: r}
}

// DefaultMissing is the sentinel the raw files use for "not answered".
const DefaultMissing = -1

// IncomeMissing lists the values that encode a missing income.
var IncomeMissing = []float64{-1, 999999, 9999999, 99999999, 999999999, 999999999999}

// RawField copies a raw variable, turning sentinel values into NaN.
type RawField struct {
	name    string
	descr   string
	sources survey.Spec[Source]
	missing []float64
}

// NewRawField creates a field read straight from the raw variables.
func NewRawField(name, descr string, sources survey.Spec[Source], missing ...float64) *RawField {
	if missing == nil {
		missing = []float64{DefaultMissing}
	}
	return &RawField{name: name, descr: descr, sources: sources, missing: missing}
}

// NewIncomeField creates a raw field with the income sentinels.
func NewIncomeField(name, descr string, sources survey.Spec[Source]) *RawField {
	return &RawField{name: name, descr: descr, sources: sources, missing: IncomeMissing}
}

func (f *RawField) Name() string { return f.name }
func (f *RawField) Description() string { return f.descr }
func (f *RawField) Type() table.ColumnType { return table.Numeric }
func (f *RawField) Sources() survey.Spec[Source] { return f.sources }

func (f *RawField) Plan(year int) (Plan, error) {
	src, err := f.sources.Select(year)
	if err != nil {
		return Plan{}, err
	}
	if src.Var == "" {
		return Plan{}, nil
	}
	return Plan{Vars: []string{src.Var}}, nil
}

func (f *RawField) Compute(fr *Frame) (*table.Column, error) {
	src, err := f.sources.Select(fr.Year)
	if err != nil || src.Absent() {
		return nil, nil
	}
	if src.Const {
		return table.Constant(f.name, src.Value, fr.Rows()), nil
	}
	raw := fr.Var(src.Var)
	if raw == nil {
		return nil, nil
	}
	return table.NewNumeric(f.name, dropSentinels(raw, f.missing)), nil
}

func dropSentinels(values, sentinels []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		for _, m := range sentinels {
			if v == m {
				v = math.NaN()
				break
			}
		}
		out[i] = v
	}
	return out
}

// CodedField maps the codes of a raw variable onto enum values. The codes
// and the variable both change with the year.
type CodedField struct {
	name    string
	descr   string
	vars    survey.Spec[string]
	codes   survey.Spec[map[int]float64]
	unknown float64
	// strict fails the load on codes outside the table.
	strict bool
}

func (f *CodedField) Name() string { return f.name }
func (f *CodedField) Description() string { return f.descr }
func (f *CodedField) Type() table.ColumnType { return table.Numeric }
func (f *CodedField) Variables() survey.Spec[string] { return f.vars }

func (f *CodedField) Plan(year int) (Plan, error) {
	v, err := f.vars.Select(year)
	if err != nil {
		return Plan{}, err
	}
	if _, err := f.codes.Select(year); err != nil {
		return Plan{}, err
	}
	return Plan{Vars: []string{v}}, nil
}

func (f *CodedField) Compute(fr *Frame) (*table.Column, error) {
	v, err := f.vars.Select(fr.Year)
	if err != nil {
		return nil, nil
	}
	codes, err := f.codes.Select(fr.Year)
	if err != nil {
		return nil, nil
	}
	raw := fr.Var(v)
	if raw == nil {
		return nil, nil
	}

	out := make([]float64, len(raw))
	invalid := map[float64]bool{}
	for i, x := range raw {
		out[i] = f.unknown
		if math.IsNaN(x) {
			continue
		}
		if mapped, ok := codes[int(x)]; ok && float64(int(x)) == x {
			out[i] = mapped
			continue
		}
		if f.strict {
			invalid[x] = true
		}
	}
	if len(invalid) > 0 {
		bad := make([]float64, 0, len(invalid))
		for x := range invalid {
			bad = append(bad, x)
		}
		sort.Float64s(bad)
		return nil, core.NewInvalidCodeError(v, bad)
	}
	return table.NewNumeric(f.name, out), nil
}

// CategoryField labels the values of another numeric field.
type CategoryField struct {
	name   string
	descr  string
	source string
	levels []string
	label  func(float64) string
}

func (f *CategoryField) Name() string { return f.name }
func (f *CategoryField) Description() string { return f.descr }
func (f *CategoryField) Type() table.ColumnType { return table.Categorical }
func (f *CategoryField) Levels() []string { return f.levels }

func (f *CategoryField) Plan(int) (Plan, error) {
	return Plan{Fields: []string{f.source}}, nil
}

func (f *CategoryField) Compute(fr *Frame) (*table.Column, error) {
	ids := fr.Floats(f.source)
	labels := make([]string, len(ids))
	for i, v := range ids {
		if !math.IsNaN(v) {
			labels[i] = f.label(v)
		}
	}
	return table.NewCategorical(f.name, labels, f.levels), nil
}

// SumField adds other fields with SumNA.
type SumField struct {
	name   string
	descr  string
	inputs []string
}

func NewSumField(name, descr string, inputs ...string) *SumField {
	return &SumField{name: name, descr: descr, inputs: inputs}
}

func (f *SumField) Name() string { return f.name }
func (f *SumField) Description() string { return f.descr }
func (f *SumField) Type() table.ColumnType { return table.Numeric }
func (f *SumField) Inputs() []string { return f.inputs }

func (f *SumField) Plan(int) (Plan, error) {
	return Plan{Fields: f.inputs}, nil
}

func (f *SumField) Compute(fr *Frame) (*table.Column, error) {
	cols := make([][]float64, len(f.inputs))
	for i, name := range f.inputs {
		cols[i] = fr.Floats(name)
	}
	return table.NewNumeric(f.name, SumNA(cols...)), nil
}

// FuncField is computed by arbitrary code from other fields and raw
// variables.
type FuncField struct {
	name  string
	descr string
	typ   table.ColumnType
	deps  []string
	vars  survey.Spec[[]string]
	// optional variables are read when the file has them.
	optional survey.Spec[[]string]
	compute  func(*Frame) ([]float64, error)
	// transient fields are cheaper to recompute than to cache.
	transient bool
}

func (f *FuncField) Name() string { return f.name }
func (f *FuncField) Description() string { return f.descr }
func (f *FuncField) Type() table.ColumnType { return f.typ }

func (f *FuncField) Plan(year int) (Plan, error) {
	p := Plan{Fields: f.deps}
	if f.vars != nil {
		vars, err := f.vars.Select(year)
		if err != nil {
			return Plan{}, err
		}
		p.Vars = vars
	}
	if f.optional != nil {
		if extra, err := f.optional.Select(year); err == nil {
			p.Vars = append(append([]string(nil), p.Vars...), extra...)
		}
	}
	return p, nil
}

func (f *FuncField) Compute(fr *Frame) (*table.Column, error) {
	if f.vars != nil {
		vars, err := f.vars.Select(fr.Year)
		if err != nil {
			return nil, nil
		}
		for _, v := range vars {
			if !fr.HasVar(v) {
				return nil, nil
			}
		}
	}
	values, err := f.compute(fr)
	if err != nil || values == nil {
		return nil, err
	}
	return table.NewNumeric(f.name, values), nil
}

// Transient reports whether a field should bypass the column cache.
func Transient(f Field) bool {
	ff, ok := f.(*FuncField)
	return ok && ff.transient
}

// SumNA adds vectors element-wise treating NaN as zero. A row is NaN only
// when it is NaN in every input.
func SumNA(cols ...[]float64) []float64 {
	if len(cols) == 0 {
		return nil
	}
	out := make([]float64, len(cols[0]))
	for i := range out {
		sum, seen := 0.0, false
		for _, c := range cols {
			if i < len(c) && !math.IsNaN(c[i]) {
				sum += c[i]
				seen = true
			}
		}
		if seen {
			out[i] = sum
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}
