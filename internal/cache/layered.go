package cache

import (
	"context"
	"log"

	"gopnad/domain/core"
	"gopnad/domain/table"
	"gopnad/internal/metrics"
	"gopnad/ports"
)

// Layered reads through the memory layer to a persistent store and writes
// through to both.
type Layered struct {
	memory  *Memory
	store   ports.ColumnStore
	metrics *metrics.Metrics
}

// NewLayered combines a memory layer with an optional persistent store.
func NewLayered(memory *Memory, store ports.ColumnStore, m *metrics.Metrics) *Layered {
	if memory == nil {
		memory = NewMemory(0)
	}
	return &Layered{memory: memory, store: store, metrics: m}
}

func (l *Layered) Get(ctx context.Context, key ports.ColumnKey) (*table.Column, error) {
	if col, err := l.memory.Get(ctx, key); err == nil {
		l.metrics.RecordCache("memory", true)
		return col, nil
	}
	l.metrics.RecordCache("memory", false)

	if l.store == nil {
		return nil, core.ErrCacheMiss
	}
	col, err := l.store.Get(ctx, key)
	if err != nil {
		if !core.IsCacheMiss(err) {
			log.Printf("[Cache] store read of %s failed, treating as miss: %v", key, err)
		}
		l.metrics.RecordCache("store", false)
		return nil, core.ErrCacheMiss
	}
	l.metrics.RecordCache("store", true)
	_ = l.memory.Put(ctx, key, col)
	return col, nil
}

func (l *Layered) Put(ctx context.Context, key ports.ColumnKey, col *table.Column) error {
	_ = l.memory.Put(ctx, key, col)
	if l.store == nil {
		return nil
	}
	return l.store.Put(ctx, key, col)
}

func (l *Layered) Delete(ctx context.Context, key ports.ColumnKey) error {
	_ = l.memory.Delete(ctx, key)
	if l.store == nil {
		return nil
	}
	return l.store.Delete(ctx, key)
}

// List describes the persistent store, or the memory layer when there is
// none.
func (l *Layered) List(ctx context.Context) ([]ports.ColumnEntry, error) {
	if l.store == nil {
		return l.memory.List(ctx)
	}
	return l.store.List(ctx)
}

// Memory exposes the in-memory layer.
func (l *Layered) Memory() *Memory {
	return l.memory
}
