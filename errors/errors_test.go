package errors

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedErrorsUnwrapToSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"invalid input", &InvalidInputError{Value: "x", Reason: "not numeric"}, ErrInvalidInput},
		{"unsafe formula", &UnsafeFormulaError{Formula: "value; rm", Token: ";", Position: 5}, ErrUnsafeFormula},
		{"formula evaluation", &FormulaEvaluationError{Formula: "value / 0", Reason: "non-finite result"}, ErrFormulaEvaluation},
		{"date format", &DateFormatError{Input: "not-a-date", Reason: "unparseable"}, ErrDateFormat},
		{"unresolvable metadata", &UnresolvableMetadataError{Path: "a.b"}, ErrUnresolvableMetadata},
		{"conversion not found", &ConversionNotFoundError{BaseUnit: "m/s", TargetUnit: "furlongs"}, ErrConversionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, stderrors.Is(tt.err, tt.sentinel))
			assert.NotEmpty(t, tt.err.Error())
		})
	}
}

func TestWrapPreservesType(t *testing.T) {
	inner := &UnsafeFormulaError{Formula: "evil()", Token: "evil", Position: 0}
	wrapped := Wrap(inner, "Evaluator", "Evaluate", "formula parse")

	require.Error(t, wrapped)
	assert.Contains(t, wrapped.Error(), "Evaluator.Evaluate")

	var target *UnsafeFormulaError
	require.True(t, stderrors.As(wrapped, &target))
	assert.Equal(t, "evil", target.Token)
	assert.True(t, stderrors.Is(wrapped, ErrUnsafeFormula))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, Wrap(nil, "C", "M", "a"))
	assert.NoError(t, Wrapf(nil, "C", "M", "a %d", 1))
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{"invalid input is caller error", &InvalidInputError{}, ErrorInvalid},
		{"unsafe formula is caller error", &UnsafeFormulaError{}, ErrorInvalid},
		{"date format is caller error", &DateFormatError{}, ErrorInvalid},
		{"conversion not found is caller error", &ConversionNotFoundError{}, ErrorInvalid},
		{"unknown error is internal", stderrors.New("boom"), ErrorInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.err))
		})
	}
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "invalid", ErrorInvalid.String())
	assert.Equal(t, "internal", ErrorInternal.String())
	assert.Equal(t, "unknown", ErrorClass(99).String())
}
