package app

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"gopnad/domain/core"
	"gopnad/domain/survey"
	"gopnad/domain/table"
	"gopnad/internal/fields"
	"gopnad/internal/transform"
	"gopnad/ports"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds the number of editions loaded at once by LoadPanel.
const DefaultWorkers = 4

// LoaderService is the public entry point for harmonised PNAD tables
type LoaderService struct {
	transformer *transform.Transformer
	source      ports.RawSource
	workers     int
}

// NewLoaderService creates a loader service
func NewLoaderService(transformer *transform.Transformer, source ports.RawSource, workers int) *LoaderService {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &LoaderService{
		transformer: transformer,
		source:      source,
		workers:     workers,
	}
}

// LoadPerson loads the person records of one edition with exactly the given columns.
func (s *LoaderService) LoadPerson(ctx context.Context, year int, columns []string) (*table.Table, error) {
	return s.Load(ctx, survey.Person, year, columns)
}

// LoadHousehold loads the household records of one edition with exactly the given columns.
func (s *LoaderService) LoadHousehold(ctx context.Context, year int, columns []string) (*table.Table, error) {
	return s.Load(ctx, survey.Household, year, columns)
}

// Load loads one edition of kind. An empty column list selects every
// catalogued field.
func (s *LoaderService) Load(ctx context.Context, kind survey.Kind, year int, columns []string) (*table.Table, error) {
	if err := s.checkYear(ctx, kind, year); err != nil {
		return nil, err
	}
	return s.transformer.Load(ctx, kind, year, columns)
}

// LoadPanel loads several editions concurrently and stacks them in year
// order. A year column is prepended when not requested. An empty year list
// selects every available edition.
func (s *LoaderService) LoadPanel(ctx context.Context, kind survey.Kind, years []int, columns []string) (*table.Table, error) {
	startTime := time.Now()

	available, err := s.source.Years(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s editions: %w", kind, err)
	}
	if len(years) == 0 {
		years = available
	}
	years = uniqueSorted(years)
	for _, year := range years {
		if !survey.Contains(available, year) {
			return nil, core.NewYearUnavailableError(string(kind), year)
		}
	}
	if len(columns) > 0 && !contains(columns, "year") {
		columns = append([]string{"year"}, columns...)
	}

	tables := make([]*table.Table, len(years))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, year := range years {
		i, year := i, year
		g.Go(func() error {
			tbl, err := s.transformer.Load(gctx, kind, year, columns)
			if err != nil {
				return fmt.Errorf("%s %d: %w", kind, year, err)
			}
			tables[i] = tbl
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	panel, err := table.Concat(tables...)
	if err != nil {
		return nil, fmt.Errorf("failed to stack %s editions: %w", kind, err)
	}
	log.Printf("[Loader] %s panel of %d editions: %d rows in %.2fms",
		kind, len(years), panel.NumRows(), float64(time.Since(startTime).Nanoseconds())/1e6)
	return panel, nil
}

// Years lists the available editions of kind within r.
func (s *LoaderService) Years(ctx context.Context, kind survey.Kind, r survey.Range) ([]int, error) {
	years, err := s.source.Years(ctx, kind)
	if err != nil {
		return nil, err
	}
	return survey.InRange(years, r), nil
}

// Fields describes the catalogue of kind.
func (s *LoaderService) Fields(kind survey.Kind) ([]fields.Info, error) {
	catalog, err := s.transformer.Catalog(kind)
	if err != nil {
		return nil, err
	}
	return catalog.DescribeAll(), nil
}

// FieldsMarkdown renders the catalogue of kind as a markdown dictionary.
func (s *LoaderService) FieldsMarkdown(kind survey.Kind) (string, error) {
	catalog, err := s.transformer.Catalog(kind)
	if err != nil {
		return "", err
	}
	return catalog.Markdown(), nil
}

// Variables lists the raw variables of one edition.
func (s *LoaderService) Variables(ctx context.Context, kind survey.Kind, year int) ([]string, error) {
	if err := s.checkYear(ctx, kind, year); err != nil {
		return nil, err
	}
	return s.source.Variables(ctx, kind, year)
}

// ResolveYears expands a comma separated list of years and ranges, such as
// "1992-1995,2001", into the matching available editions of kind. An empty
// expression selects every edition.
func (s *LoaderService) ResolveYears(ctx context.Context, kind survey.Kind, expr string) ([]int, error) {
	available, err := s.source.Years(ctx, kind)
	if err != nil {
		return nil, err
	}
	parts := ParseList(expr)
	if len(parts) == 0 {
		return available, nil
	}
	var out []int
	for _, part := range parts {
		r, err := survey.ParseRange(part)
		if err != nil {
			return nil, err
		}
		matched := survey.InRange(available, r)
		if len(matched) == 0 {
			return nil, fmt.Errorf("%w: no %s edition in %s", core.ErrYearUnavailable, kind, part)
		}
		out = append(out, matched...)
	}
	return uniqueSorted(out), nil
}

// ParseList splits comma separated values, dropping blanks. Each argument
// may itself hold several values.
func ParseList(values ...string) []string {
	var out []string
	for _, v := range values {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

func (s *LoaderService) checkYear(ctx context.Context, kind survey.Kind, year int) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", core.ErrInvalidKind, kind)
	}
	years, err := s.source.Years(ctx, kind)
	if err != nil {
		return fmt.Errorf("failed to list %s editions: %w", kind, err)
	}
	if !survey.Contains(years, year) {
		return core.NewYearUnavailableError(string(kind), year)
	}
	return nil
}

func uniqueSorted(years []int) []int {
	out := append([]int(nil), years...)
	sort.Ints(out)
	n := 0
	for i, y := range out {
		if i == 0 || y != out[n-1] {
			out[n] = y
			n++
		}
	}
	return out[:n]
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
