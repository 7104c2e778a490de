package transform

import (
	"context"
	"fmt"
	"log"
	"time"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/internal/fields"
	"gopnad/internal/metrics"
	"gopnad/ports"
)

// Transformer loads harmonised tables. It is safe for concurrent use.
type Transformer struct {
	source   ports.RawSource
	catalogs fields.Catalogs
	cache    ports.ColumnStore
	metrics  *metrics.Metrics
}

// New creates a transformer. cache and m may be nil.
func New(source ports.RawSource, catalogs fields.Catalogs, cache ports.ColumnStore, m *metrics.Metrics) *Transformer {
	return &Transformer{source: source, catalogs: catalogs, cache: cache, metrics: m}
}

// Catalog returns the field catalogue of kind.
func (t *Transformer) Catalog(kind survey.Kind) (*fields.Catalog, error) {
	return t.catalogs.For(kind)
}

// Load returns a table holding exactly the requested columns, in order. An
// empty list selects the whole catalogue. Names outside the catalogue are
// read as raw variables of the edition's file.
func (t *Transformer) Load(ctx context.Context, kind survey.Kind, year int, names []string) (*table.Table, error) {
	startTime := time.Now()
	tbl, stats, err := t.load(ctx, kind, year, names)
	t.metrics.RecordLoad(string(kind), time.Since(startTime), err)
	if err != nil {
		return nil, err
	}
	t.metrics.RecordComputed(string(kind), stats.computed)
	log.Printf("[Transformer] %s %d: %d columns x %d rows (%d cached, %d computed, %d raw) in %.2fms",
		kind, year, tbl.NumColumns(), tbl.NumRows(), stats.cached, stats.computed, stats.raw,
		float64(time.Since(startTime).Nanoseconds())/1e6)
	return tbl, nil
}

type loadStats struct {
	cached   int
	computed int
	raw      int
}

func (t *Transformer) load(ctx context.Context, kind survey.Kind, year int, names []string) (*table.Table, loadStats, error) {
	var stats loadStats
	catalog, err := t.catalogs.For(kind)
	if err != nil {
		return nil, stats, err
	}
	if len(names) == 0 {
		names = catalog.Names()
	}

	cached := make(map[string]*table.Column)
	have := func(name string) bool {
		if _, ok := cached[name]; ok {
			return true
		}
		col, ok := t.cached(ctx, catalog, ports.ColumnKey{Kind: kind, Year: year, Column: name})
		if ok {
			cached[name] = col
		}
		return ok
	}
	plan, err := NewPlan(catalog, year, names, have)
	if err != nil {
		return nil, stats, err
	}
	stats.cached = len(cached)

	rows := -1
	for _, col := range cached {
		rows = col.Len()
		break
	}

	var raw *table.Table
	if reads := plan.ReadList(); len(reads) > 0 || (rows < 0 && len(plan.Order) > 0) {
		raw, err = t.readRaw(ctx, kind, year, reads)
		if err != nil {
			return nil, stats, err
		}
		stats.raw = raw.NumColumns()
		rows = raw.NumRows()
	}
	if rows < 0 {
		rows = 0
	}

	fr := fields.NewFrame(kind, year, rows)
	if raw != nil {
		for _, col := range raw.Columns() {
			fr.SetVar(col.Name, col.Floats)
		}
	}
	for name, col := range cached {
		if col.Len() != rows {
			return nil, stats, fmt.Errorf("%w: cached %s has %d rows, %s %d has %d; clear the cache",
				core.ErrLengthMismatch, name, col.Len(), kind, year, rows)
		}
		fr.Set(col)
	}

	for _, name := range plan.Order {
		f, _ := catalog.Field(name)
		var col *table.Column
		if !plan.Unavailable[name] {
			col, err = f.Compute(fr)
			if err != nil {
				return nil, stats, fmt.Errorf("failed to compute %s for %s %d: %w", name, kind, year, err)
			}
		}
		if col == nil {
			fr.Set(table.Missing(name, f.Type(), rows))
			if !plan.Unavailable[name] && degraded(f, fr) {
				fr.MarkDegraded(name)
			}
			continue
		}
		if col.Len() != rows {
			return nil, stats, fmt.Errorf("%w: field %s produced %d rows, expected %d", core.ErrLengthMismatch, name, col.Len(), rows)
		}
		col.Name = name
		fr.Set(col)
		if fields.Transient(f) {
			continue
		}
		stats.computed++
		// A column built on a missing variable would hide it once it shows up.
		if degraded(f, fr) {
			fr.MarkDegraded(name)
			continue
		}
		t.store(ctx, ports.ColumnKey{Kind: kind, Year: year, Column: name}, col)
	}

	out := table.Empty(rows)
	for _, name := range names {
		if out.Has(name) {
			continue
		}
		if col, ok := fr.Column(name); ok {
			if err := out.Add(col); err != nil {
				return nil, stats, err
			}
			continue
		}
		values := fr.Var(name)
		if values == nil {
			return nil, stats, core.NewUnknownColumnError(string(kind), year, name)
		}
		if err := out.Add(table.NewNumeric(name, values)); err != nil {
			return nil, stats, err
		}
	}
	return out, stats, nil
}

// degraded reports whether f was evaluated without a variable or field it
// reads in the frame's year.
func degraded(f fields.Field, fr *fields.Frame) bool {
	return missingVar(f, fr) || degradedInput(f, fr)
}

// missingVar reports whether the edition's file lacks a raw variable f reads
// in the frame's year. Fields the catalogue marks absent for the year are
// not affected.
func missingVar(f fields.Field, fr *fields.Frame) bool {
	deps, err := f.Plan(fr.Year)
	if err != nil {
		return false
	}
	for _, v := range deps.Vars {
		if !fr.HasVar(v) {
			return true
		}
	}
	return false
}

// degradedInput reports whether any field f depends on in the frame's year
// was marked degraded.
func degradedInput(f fields.Field, fr *fields.Frame) bool {
	deps, err := f.Plan(fr.Year)
	if err != nil {
		return true
	}
	for _, dep := range deps.Fields {
		if fr.Degraded(dep) {
			return true
		}
	}
	return false
}

func (t *Transformer) cached(ctx context.Context, catalog *fields.Catalog, key ports.ColumnKey) (*table.Column, bool) {
	if t.cache == nil {
		return nil, false
	}
	f, ok := catalog.Field(key.Column)
	if !ok || fields.Transient(f) {
		return nil, false
	}
	col, err := t.cache.Get(ctx, key)
	if err != nil {
		if !core.IsCacheMiss(err) {
			log.Printf("[Transformer] cache read of %s failed: %v", key, err)
		}
		return nil, false
	}
	if col.Type != f.Type() {
		log.Printf("[Transformer] cached %s has type %s, expected %s; recomputing", key, col.Type, f.Type())
		return nil, false
	}
	col.Name = key.Column
	return col, true
}

// store writes a computed column back. Failures are logged and do not fail
// the load.
func (t *Transformer) store(ctx context.Context, key ports.ColumnKey, col *table.Column) {
	if t.cache == nil {
		return
	}
	if err := t.cache.Put(ctx, key, col); err != nil {
		log.Printf("[Transformer] cache write of %s failed: %v", key, err)
	}
}

func (t *Transformer) readRaw(ctx context.Context, kind survey.Kind, year int, names []string) (*table.Table, error) {
	startTime := time.Now()
	raw, err := t.source.ReadVariables(ctx, kind, year, names)
	t.metrics.RecordRawRead(string(kind), time.Since(startTime), err)
	if err != nil {
		return nil, fmt.Errorf("failed to read raw %s %d: %w", kind, year, err)
	}
	return raw, nil
}
