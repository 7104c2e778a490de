package app

import (
	"context"

	"gopnad/domain/survey"
	"gopnad/internal/profiling"
)

// SummaryService computes column summaries of loaded editions
type SummaryService struct {
	loader *LoaderService
}

// NewSummaryService creates a summary service
func NewSummaryService(loader *LoaderService) *SummaryService {
	return &SummaryService{loader: loader}
}

// Summarize loads the columns of one edition and describes them. A non-empty
// weight names the column used to weight the statistics; it is loaded
// alongside and only reported when also requested.
func (s *SummaryService) Summarize(ctx context.Context, kind survey.Kind, year int, columns []string, weight string) ([]profiling.ColumnSummary, error) {
	load := columns
	extra := weight != "" && len(columns) > 0 && !contains(columns, weight)
	if extra {
		load = append(append([]string(nil), columns...), weight)
	}

	tbl, err := s.loader.Load(ctx, kind, year, load)
	if err != nil {
		return nil, err
	}
	summaries, err := profiling.Summarize(tbl, weight)
	if err != nil {
		return nil, err
	}
	if extra {
		summaries = summaries[:len(summaries)-1]
	}
	return summaries, nil
}
