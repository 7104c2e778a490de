package ports

import (
	"context"

	"gopnad/domain/survey"
	"gopnad/domain/table"
)

// RawSource gives access to the untransformed microdata files.
type RawSource interface {
	// Years lists the survey editions available for kind, ascending.
	Years(ctx context.Context, kind survey.Kind) ([]int, error)

	// Variables lists the raw variable codes present in one edition.
	Variables(ctx context.Context, kind survey.Kind, year int) ([]string, error)

	// ReadVariables reads the named raw variables as numeric columns.
	// Variables absent from the file are left out of the result, which still
	// reports the row count of the edition.
	ReadVariables(ctx context.Context, kind survey.Kind, year int, names []string) (*table.Table, error)
}
