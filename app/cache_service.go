package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gopnad/domain/survey"
	"gopnad/ports"
)

// CacheFilter selects cached columns. Empty lists match everything.
type CacheFilter struct {
	Kinds  []survey.Kind
	Years  []int
	Fields []string
}

func (f CacheFilter) matches(key ports.ColumnKey) bool {
	if len(f.Kinds) > 0 && !containsKind(f.Kinds, key.Kind) {
		return false
	}
	if len(f.Years) > 0 && !survey.Contains(f.Years, key.Year) {
		return false
	}
	if len(f.Fields) > 0 && !contains(f.Fields, key.Column) {
		return false
	}
	return true
}

// CacheService inspects and prunes the derived column cache
type CacheService struct {
	store ports.ColumnStore
}

// NewCacheService creates a cache service over store
func NewCacheService(store ports.ColumnStore) *CacheService {
	return &CacheService{store: store}
}

// Describe lists the cached columns matching filter.
func (s *CacheService) Describe(ctx context.Context, filter CacheFilter) ([]ports.ColumnEntry, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list cache: %w", err)
	}
	out := entries[:0:0]
	for _, e := range entries {
		if filter.matches(e.ColumnKey) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Remove deletes the cached columns matching filter and returns how many
// were removed.
func (s *CacheService) Remove(ctx context.Context, filter CacheFilter) (int, error) {
	entries, err := s.Describe(ctx, filter)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		if err := s.store.Delete(ctx, e.ColumnKey); err != nil {
			return i, fmt.Errorf("failed to remove %s: %w", e.ColumnKey, err)
		}
	}
	log.Printf("[Cache] removed %d columns (kinds=%v years=%v fields=%v)", len(entries), filter.Kinds, filter.Years, filter.Fields)
	return len(entries), nil
}

// RemoveYears deletes every cached column of the given editions.
func (s *CacheService) RemoveYears(ctx context.Context, kinds []survey.Kind, years ...int) (int, error) {
	if len(years) == 0 {
		return 0, nil
	}
	return s.Remove(ctx, CacheFilter{Kinds: kinds, Years: years})
}

// RemoveFields deletes every cached occurrence of the given fields.
func (s *CacheService) RemoveFields(ctx context.Context, kinds []survey.Kind, names ...string) (int, error) {
	if len(names) == 0 {
		return 0, nil
	}
	return s.Remove(ctx, CacheFilter{Kinds: kinds, Fields: names})
}

// ParseKinds accepts a kind name, "all" or the empty string. The latter two
// select every kind.
func ParseKinds(s string) ([]survey.Kind, error) {
	if s == "" || strings.EqualFold(s, "all") {
		return append([]survey.Kind(nil), survey.Kinds...), nil
	}
	kind, err := survey.ParseKind(s)
	if err != nil {
		return nil, err
	}
	return []survey.Kind{kind}, nil
}

func containsKind(kinds []survey.Kind, k survey.Kind) bool {
	for _, v := range kinds {
		if v == k {
			return true
		}
	}
	return false
}
