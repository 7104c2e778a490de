package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Not found errors
	ErrNotFound         = errors.New("resource not found")
	ErrYearUnavailable  = fmt.Errorf("%w: survey year", ErrNotFound)
	ErrUnknownColumn    = fmt.Errorf("%w: column", ErrNotFound)
	ErrRawFileNotFound  = fmt.Errorf("%w: raw data file", ErrNotFound)
	ErrCacheMiss        = fmt.Errorf("%w: cached column", ErrNotFound)
	ErrNoYearRange      = errors.New("no valid range for year")
	ErrInvalidRange     = errors.New("invalid year range")
	ErrInvalidKind      = errors.New("invalid record kind")
	ErrInvalidCode      = errors.New("invalid survey code")
	ErrDependencyCycle  = errors.New("field dependency cycle")
	ErrLengthMismatch   = errors.New("column length mismatch")
	ErrCorruptColumn    = errors.New("corrupt column payload")
	ErrUnsupportedInput = errors.New("unsupported raw data format")
)

// Error constructors with context
func NewYearUnavailableError(kind string, year int) error {
	return fmt.Errorf("%w: %s %d", ErrYearUnavailable, kind, year)
}

func NewUnknownColumnError(kind string, year int, column string) error {
	return fmt.Errorf("%w: %q in %s %d", ErrUnknownColumn, column, kind, year)
}

func NewNoYearRangeError(year int, ranges string) error {
	return fmt.Errorf("%w %d: %s", ErrNoYearRange, year, ranges)
}

func NewInvalidCodeError(variable string, codes []float64) error {
	return fmt.Errorf("%w: %s has unmapped values %v", ErrInvalidCode, variable, codes)
}

func NewDependencyCycleError(path []string) error {
	return fmt.Errorf("%w: %v", ErrDependencyCycle, path)
}

// Error checking helpers
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsCacheMiss(err error) bool {
	return errors.Is(err, ErrCacheMiss)
}

// IsInputError reports errors caused by the caller's request rather than the
// data or the environment.
func IsInputError(err error) bool {
	return errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrUnknownColumn) ||
		errors.Is(err, ErrYearUnavailable)
}

func IsDataError(err error) bool {
	return errors.Is(err, ErrInvalidCode) ||
		errors.Is(err, ErrCorruptColumn) ||
		errors.Is(err, ErrLengthMismatch) ||
		errors.Is(err, ErrUnsupportedInput)
}
