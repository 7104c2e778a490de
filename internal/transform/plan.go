// Package transform turns raw PNAD variables into harmonised tables: it
// resolves field dependencies for a year, reads the raw variables they need
// in one pass and evaluates the fields in dependency order.
package transform

import (
	"errors"

	"gopnad/domain/core"
	"gopnad/internal/fields"
)

// Plan is the evaluation schedule of one load.
type Plan struct {
	// Order lists the catalogue fields to compute, dependencies first.
	Order []string
	// Vars lists the raw variables the computed fields read.
	Vars []string
	// Passthrough lists requested names that are raw variables rather than
	// catalogue fields.
	Passthrough []string
	// Unavailable marks fields that do not exist in the planned year.
	Unavailable map[string]bool
}

// planner walks the dependency graph depth first. have reports columns that
// are already known, whose inputs need not be planned.
type planner struct {
	catalog *fields.Catalog
	year    int
	have    func(name string) bool

	state map[string]int
	stack []string
	vars  map[string]bool
	plan  *Plan
}

const (
	visiting = iota + 1
	done
)

// NewPlan schedules the evaluation of names in year.
func NewPlan(catalog *fields.Catalog, year int, names []string, have func(string) bool) (*Plan, error) {
	if have == nil {
		have = func(string) bool { return false }
	}
	p := &planner{
		catalog: catalog,
		year:    year,
		have:    have,
		state:   make(map[string]int),
		vars:    make(map[string]bool),
		plan:    &Plan{Unavailable: make(map[string]bool)},
	}
	passthrough := make(map[string]bool)
	for _, name := range names {
		if _, ok := catalog.Field(name); !ok {
			if !passthrough[name] {
				p.plan.Passthrough = append(p.plan.Passthrough, name)
				passthrough[name] = true
			}
			continue
		}
		if err := p.visit(name); err != nil {
			return nil, err
		}
	}
	return p.plan, nil
}

func (p *planner) visit(name string) error {
	switch p.state[name] {
	case done:
		return nil
	case visiting:
		return core.NewDependencyCycleError(append(p.cycle(name), name))
	}
	if p.have(name) {
		p.state[name] = done
		return nil
	}

	f, _ := p.catalog.Field(name)
	p.state[name] = visiting
	p.stack = append(p.stack, name)

	deps, err := f.Plan(p.year)
	switch {
	case errors.Is(err, core.ErrNoYearRange):
		p.plan.Unavailable[name] = true
	case err != nil:
		return err
	default:
		for _, dep := range deps.Fields {
			if _, ok := p.catalog.Field(dep); !ok {
				return core.NewUnknownColumnError(string(p.catalog.Kind()), p.year, dep)
			}
			if err := p.visit(dep); err != nil {
				return err
			}
		}
		for _, v := range deps.Vars {
			if !p.vars[v] {
				p.vars[v] = true
				p.plan.Vars = append(p.plan.Vars, v)
			}
		}
	}

	p.stack = p.stack[:len(p.stack)-1]
	p.state[name] = done
	p.plan.Order = append(p.plan.Order, name)
	return nil
}

func (p *planner) cycle(name string) []string {
	for i, n := range p.stack {
		if n == name {
			return append([]string(nil), p.stack[i:]...)
		}
	}
	return []string{name}
}

// ReadList returns every raw variable to read, computed inputs first.
func (p *Plan) ReadList() []string {
	out := make([]string, 0, len(p.Vars)+len(p.Passthrough))
	out = append(out, p.Vars...)
	for _, v := range p.Passthrough {
		if !contains(p.Vars, v) {
			out = append(out, v)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
