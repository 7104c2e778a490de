package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"gopnad/domain/core"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsCode(t *testing.T) {
	base := ConfigInvalid("PNAD_DATA_DIR is required")
	err := Wrap(base, "configuration validation failed")

	assert.Equal(t, CodeConfigInvalid, GetCode(err))
	assert.Equal(t, "configuration validation failed: PNAD_DATA_DIR is required", err.Error())
	assert.True(t, stderrors.Is(err, base))
	assert.Nil(t, Wrap(nil, "ignored"))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"year", core.NewYearUnavailableError("person", 1950), CodeNotFound},
		{"column", core.NewUnknownColumnError("person", 2001, "foo"), CodeNotFound},
		{"kind", fmt.Errorf("%w: dwelling", core.ErrInvalidKind), CodeInvalidInput},
		{"cycle", core.NewDependencyCycleError([]string{"a", "b", "a"}), CodeInvalidInput},
		{"code", core.NewInvalidCodeError("UF", []float64{99}), CodeDataError},
		{"stale", core.ErrLengthMismatch, CodeDataError},
		{"app", InvalidInput("bad year"), CodeInvalidInput},
		{"other", stderrors.New("disk on fire"), CodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
			assert.Equal(t, tt.want, GetCode(Wrap(tt.err, "load failed")))
		})
	}
}

func TestWithCode(t *testing.T) {
	err := WithCode(CodeDatabaseError, stderrors.New("connection refused"))
	assert.Equal(t, CodeDatabaseError, GetCode(err))
	assert.True(t, IsAppError(fmt.Errorf("outer: %w", err)))
	assert.Equal(t, "UNKNOWN", GetCode(stderrors.New("plain")))
}
