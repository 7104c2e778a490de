package fields

import (
	"fmt"
	"sort"
	"strings"

	"gopnad/domain/core"
	"gopnad/domain/survey"
)

// Catalog is the ordered set of fields of one record kind.
type Catalog struct {
	kind   survey.Kind
	fields map[string]Field
	order  []string
}

// NewCatalog creates a catalogue holding fields in the given order.
func NewCatalog(kind survey.Kind, fields ...Field) *Catalog {
	c := &Catalog{kind: kind, fields: make(map[string]Field, len(fields))}
	for _, f := range fields {
		c.Register(f)
	}
	return c
}

func (c *Catalog) Kind() survey.Kind { return c.kind }

// Register adds f, replacing a field of the same name in place.
func (c *Catalog) Register(f Field) {
	if _, ok := c.fields[f.Name()]; !ok {
		c.order = append(c.order, f.Name())
	}
	c.fields[f.Name()] = f
}

// Field looks a field up by name.
func (c *Catalog) Field(name string) (Field, bool) {
	f, ok := c.fields[name]
	return f, ok
}

// Names returns the field names in catalogue order.
func (c *Catalog) Names() []string {
	return append([]string(nil), c.order...)
}

// Catalogs indexes the catalogue of each record kind.
type Catalogs map[survey.Kind]*Catalog

// Default returns the built-in person and household catalogues.
func Default() Catalogs {
	return Catalogs{
		survey.Person:    Person(),
		survey.Household: Household(),
	}
}

// For returns the catalogue of kind.
func (cs Catalogs) For(kind survey.Kind) (*Catalog, error) {
	c, ok := cs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", core.ErrInvalidKind, kind)
	}
	return c, nil
}

// Info documents a field: its inputs for every range of years.
type Info struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Sources     []string `json:"sources,omitempty"`
	Inputs      []string `json:"inputs,omitempty"`
	Levels      []string `json:"levels,omitempty"`
}

// Describe builds the documentation entry of a field.
func Describe(f Field) Info {
	info := Info{Name: f.Name(), Type: f.Type().String(), Description: f.Description()}
	switch f := f.(type) {
	case *RawField:
		info.Kind = "raw"
		if len(f.missing) > 1 {
			info.Kind = "income"
		}
		for _, e := range sortedEntries(f.sources) {
			info.Sources = append(info.Sources, e.Range.String()+": "+e.Value.String())
		}
	case *CodedField:
		info.Kind = "coded"
		for _, e := range sortedEntries(f.vars) {
			info.Sources = append(info.Sources, e.Range.String()+": "+e.Value)
		}
	case *CategoryField:
		info.Kind = "category"
		info.Inputs = []string{f.source}
		info.Levels = f.levels
	case *SumField:
		info.Kind = "sum"
		info.Inputs = f.inputs
	case *FuncField:
		info.Kind = "derived"
		info.Inputs = f.deps
		for _, e := range sortedEntries(f.vars) {
			info.Sources = append(info.Sources, e.Range.String()+": "+strings.Join(e.Value, ", "))
		}
	}
	return info
}

// DescribeAll documents every field of a catalogue in order.
func (c *Catalog) DescribeAll() []Info {
	out := make([]Info, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, Describe(c.fields[name]))
	}
	return out
}

// Markdown renders the catalogue as a Markdown field dictionary.
func (c *Catalog) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s fields\n\n", c.kind)
	for _, info := range c.DescribeAll() {
		fmt.Fprintf(&b, "## %s\n\n", info.Name)
		if info.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", info.Description)
		}
		fmt.Fprintf(&b, "- type: `%s` (%s)\n", info.Type, info.Kind)
		if len(info.Inputs) > 0 {
			fmt.Fprintf(&b, "- inputs: `%s`\n", strings.Join(info.Inputs, "`, `"))
		}
		for _, s := range info.Sources {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func sortedEntries[T any](spec survey.Spec[T]) []survey.Entry[T] {
	out := append([]survey.Entry[T](nil), spec...)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Range, out[j].Range
		if a.From != b.From {
			return a.From == survey.Open || (b.From != survey.Open && a.From < b.From)
		}
		return a.To != survey.Open && (b.To == survey.Open || a.To < b.To)
	})
	return out
}
