// Package cache keeps derived columns around between loads: a bounded
// in-memory layer in front of an optional persistent ports.ColumnStore.
package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"gopnad/domain/core"
	"gopnad/domain/table"
	"gopnad/ports"
)

const (
	weightGrowth  = 1.05
	weightCeiling = 1e10
	weightRescale = 1e-6
)

// Memory is a bounded column store. Every insertion is worth a little more
// than the previous one, hits add the current worth to an entry, and the
// entry with the smallest accumulated weight is evicted first.
type Memory struct {
	mu       sync.Mutex
	capacity int
	weight   float64
	entries  map[ports.ColumnKey]*memoryEntry
}

type memoryEntry struct {
	weight  float64
	col     *table.Column
	created time.Time
}

// NewMemory creates a store holding at most capacity columns. A capacity of
// zero disables it.
func NewMemory(capacity int) *Memory {
	return &Memory{
		capacity: capacity,
		weight:   1,
		entries:  make(map[ports.ColumnKey]*memoryEntry),
	}
}

// Get returns a copy of the stored column.
func (m *Memory) Get(_ context.Context, key ports.ColumnKey) (*table.Column, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrCacheMiss, key)
	}
	e.weight += m.weight
	return e.col.Clone(), nil
}

// Put stores a copy of col, evicting the lightest entry when full.
func (m *Memory) Put(_ context.Context, key ports.ColumnKey, col *table.Column) error {
	if m.capacity <= 0 {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[key]; ok {
		e.weight += m.weight
		e.col = col.Clone()
		return nil
	}

	if len(m.entries) >= m.capacity {
		m.evict()
	}
	if m.weight > weightCeiling {
		m.weight = 1
		for _, e := range m.entries {
			e.weight *= weightRescale
		}
	}
	m.weight *= weightGrowth
	m.entries[key] = &memoryEntry{weight: m.weight, col: col.Clone(), created: time.Now()}
	return nil
}

func (m *Memory) evict() {
	var (
		victim   ports.ColumnKey
		lightest float64
		found    bool
	)
	for k, e := range m.entries {
		if !found || e.weight < lightest {
			victim, lightest, found = k, e.weight, true
		}
	}
	if found {
		delete(m.entries, victim)
	}
}

func (m *Memory) Delete(_ context.Context, key ports.ColumnKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// List describes the stored columns ordered by key.
func (m *Memory) List(_ context.Context) ([]ports.ColumnEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]ports.ColumnEntry, 0, len(m.entries))
	for k, e := range m.entries {
		out = append(out, describe(k, e.col, e.created))
	}
	sortEntries(out)
	return out, nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Clear drops every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = make(map[ports.ColumnKey]*memoryEntry)
	m.weight = 1
}

func describe(key ports.ColumnKey, col *table.Column, created time.Time) ports.ColumnEntry {
	size := int64(8 * len(col.Floats))
	for _, l := range col.Labels {
		size += int64(len(l))
	}
	return ports.ColumnEntry{
		ColumnKey: key,
		Type:      col.Type.String(),
		Rows:      col.Len(),
		SizeBytes: size,
		CreatedAt: created,
	}
}

func sortEntries(entries []ports.ColumnEntry) {
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		return a.Column < b.Column
	})
}
