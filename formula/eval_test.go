package formula

import (
	stderrors "errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motamman/signalk-units-preference-sub000/errors"
)

func TestEvaluateArithmetic(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		value   float64
		want    float64
	}{
		{"knots conversion", "value * 1.94384", 5.0, 9.7192},
		{"celsius from kelvin", "value - 273.15", 300.0, 26.85},
		{"fahrenheit from kelvin", "(value - 273.15) * 9 / 5 + 32", 273.15, 32},
		{"identity", "value", 42.5, 42.5},
		{"constant only", "3.5 * 2", 0, 7},
		{"unary minus", "-value", 5, -5},
		{"nested negation", "-(value + 1)", 2, -3},
		{"precedence", "2 + 3 * 4", 0, 14},
		{"parens override precedence", "(2 + 3) * 4", 0, 20},
		{"division", "value / 4", 10, 2.5},
		{"pow", "pow(value, 2)", 3, 9},
		{"sqrt", "sqrt(value)", 16, 4},
		{"abs", "abs(value)", -7.5, 7.5},
		{"round", "round(value * 10) / 10", 9.7192, 9.7},
		{"floor", "floor(value)", 3.9, 3},
		{"ceil", "ceil(value)", 3.1, 4},
		{"min two args", "min(value, 10)", 15, 10},
		{"max three args", "max(value, 0, 2)", -4, 2},
		{"exponent literal", "value * 1e3", 2, 2000},
		{"negative value input", "value * 2", -3, -6},
		{"zero", "value * 100", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Evaluate(tt.formula, tt.value)
			require.NoError(t, err)
			require.Equal(t, ResultNumber, res.Kind)
			assert.InDelta(t, tt.want, res.Number, 1e-9)
		})
	}
}

func TestEvaluateRejectsUnsafeTokens(t *testing.T) {
	tests := []struct {
		name    string
		formula string
	}{
		{"host identifier", "process"},
		{"call on host identifier", "os.Exit(1)"},
		{"require style", "require(value)"},
		{"statement separator", "value; 1"},
		{"assignment", "value = 1"},
		{"backtick", "`value`"},
		{"string literal", `value + "x"`},
		{"unknown function", "exec(value)"},
		{"unknown duration function", "formatDurationEvil(value)"},
		{"comparison operator", "value > 1"},
		{"bracket index", "value[0]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.formula, 1.0)
			require.Error(t, err)
			// Everything outside the arithmetic grammar must surface as
			// one of the two formula errors and never execute.
			safe := stderrors.Is(err, errors.ErrUnsafeFormula) ||
				stderrors.Is(err, errors.ErrFormulaEvaluation)
			assert.True(t, safe, "got %v", err)
		})
	}
}

func TestEvaluateSyntaxErrors(t *testing.T) {
	tests := []struct {
		name    string
		formula string
	}{
		{"empty", ""},
		{"dangling operator", "value *"},
		{"unbalanced paren", "(value + 1"},
		{"double operator", "value * * 2"},
		{"trailing garbage", "value 2"},
		{"bare function", "sqrt"},
		{"wrong arity", "pow(value)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.formula, 1.0)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrFormulaEvaluation), "got %v", err)
		})
	}
}

func TestEvaluateNonFiniteValue(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := Evaluate("value * 2", v)
		require.Error(t, err)
		assert.True(t, stderrors.Is(err, errors.ErrInvalidInput))
	}
}

func TestEvaluateNonFiniteResult(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		value   float64
	}{
		{"division by zero", "value / 0", 1},
		{"sqrt of negative", "sqrt(value)", -1},
		{"overflow", "pow(value, 10000)", 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Evaluate(tt.formula, tt.value)
			require.Error(t, err)
			assert.True(t, stderrors.Is(err, errors.ErrFormulaEvaluation), "got %v", err)
		})
	}
}

func TestEvaluateDurationDispatch(t *testing.T) {
	res, err := Evaluate("formatDurationCompact(value)", 3725)
	require.NoError(t, err)
	require.Equal(t, ResultText, res.Kind)
	assert.Equal(t, "1h 2m", res.Text)

	// Whitespace inside the call form is tolerated.
	res, err = Evaluate("  formatDurationHMS( value ) ", 3725)
	require.NoError(t, err)
	assert.Equal(t, "01:02:05", res.Text)
}

func TestEvaluateNumericRejectsDurations(t *testing.T) {
	_, err := EvaluateNumeric("formatDurationHMS(value)", 10)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrFormulaEvaluation))
}

func TestRoundTripFormulas(t *testing.T) {
	// Representative formula/inverse pairs from the default tables.
	pairs := []struct {
		name    string
		formula string
		inverse string
	}{
		{"knots", "value * 1.94384", "value / 1.94384"},
		{"celsius", "value - 273.15", "value + 273.15"},
		{"fahrenheit", "(value - 273.15) * 9 / 5 + 32", "(value - 32) * 5 / 9 + 273.15"},
		{"hectopascal", "value / 100", "value * 100"},
	}

	values := []float64{0, 1, -1, 273.15, 12345.678, -42.5}

	for _, p := range pairs {
		t.Run(p.name, func(t *testing.T) {
			for _, v := range values {
				forward, err := EvaluateNumeric(p.formula, v)
				require.NoError(t, err)
				back, err := EvaluateNumeric(p.inverse, forward)
				require.NoError(t, err)
				assert.InDelta(t, v, back, 1e-9, "value %v", v)
			}
		})
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	a, err := Evaluate("value * 1.94384", 5.0)
	require.NoError(t, err)
	b, err := Evaluate("value * 1.94384", 5.0)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func BenchmarkEvaluate(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = Evaluate("(value - 273.15) * 9 / 5 + 32", 300.0)
	}
}
