package defaults

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motamman/signalk-units-preference-sub000/formula"
)

func TestConversionsForBaseUnit(t *testing.T) {
	p := New()

	meta := p.ConversionsForBaseUnit(BaseSpeed)
	require.NotNil(t, meta)
	assert.Equal(t, BaseSpeed, meta.BaseUnit)
	assert.Equal(t, "speed", meta.Category, "lexicographically first of speed/windSpeed")
	assert.Contains(t, meta.Conversions, "knots")
	assert.Equal(t, "kn", meta.Conversions["knots"].Symbol)
}

func TestConversionsForUnknownBaseUnit(t *testing.T) {
	p := New()
	assert.Nil(t, p.ConversionsForBaseUnit("furlongs/fortnight"))
}

func TestDateBaseUnitsGetDateFormats(t *testing.T) {
	p := New()

	for _, base := range []string{BaseRFC3339, BaseEpochSec, BaseEpochMillis} {
		meta := p.ConversionsForBaseUnit(base)
		require.NotNil(t, meta, "base %q", base)
		assert.Contains(t, meta.Conversions, "dd/MM/yyyy")
		assert.Contains(t, meta.Conversions, "epoch-seconds")
		assert.True(t, meta.Conversions["dd/MM/yyyy"].IsDate())
	}

	// Scalar base units must not grow date formats.
	meta := p.ConversionsForBaseUnit(BaseTemperature)
	require.NotNil(t, meta)
	assert.NotContains(t, meta.Conversions, "dd/MM/yyyy")
}

func TestBaseUnitForCategory(t *testing.T) {
	p := New()

	base, ok := p.BaseUnitForCategory("temperature")
	require.True(t, ok)
	assert.Equal(t, BaseTemperature, base)

	_, ok = p.BaseUnitForCategory("nonsense")
	assert.False(t, ok)
}

func TestCategoriesForBaseUnitSorted(t *testing.T) {
	p := New()

	assert.Equal(t, []string{"speed", "windSpeed"}, p.CategoriesForBaseUnit(BaseSpeed))
	assert.Equal(t, []string{"depth", "distance"}, p.CategoriesForBaseUnit(BaseMeters))
	assert.Empty(t, p.CategoriesForBaseUnit("no-such-unit"))
}

func TestEpochMillisDetection(t *testing.T) {
	p := New()
	assert.True(t, p.IsEpochMillisBaseUnit(BaseEpochMillis))
	assert.False(t, p.IsEpochMillisBaseUnit(BaseEpochSec))
	assert.False(t, p.IsEpochMillisBaseUnit(BaseSpeed))
}

// Every built-in formula must evaluate, stay finite for representative
// inputs, and round-trip through its inverse when one is defined.
func TestBuiltinFormulasEvaluateAndRoundTrip(t *testing.T) {
	p := New()

	samples := []float64{0, 1, -1, 273.15, 101325}

	for _, base := range []string{
		BaseSpeed, BaseTemperature, BasePressure, BaseAngle, BaseAngularVel,
		BaseMeters, BaseCubicMeters, BaseVolumeRate, BaseRatio, BaseVolts,
		BaseAmps, BaseHertz, BaseJoules, BaseWatts,
	} {
		meta := p.ConversionsForBaseUnit(base)
		require.NotNil(t, meta, "base %q", base)

		for target, def := range meta.Conversions {
			require.True(t, def.HasFormula(), "%s -> %s has no formula", base, target)
			for _, v := range samples {
				out, err := formula.EvaluateNumeric(def.Formula, v)
				require.NoError(t, err, "%s -> %s at %v", base, target, v)

				if def.InverseFormula == "" {
					continue
				}
				back, err := formula.EvaluateNumeric(def.InverseFormula, out)
				require.NoError(t, err, "inverse %s -> %s at %v", base, target, v)
				assert.InDelta(t, v, back, 1e-6, "%s -> %s round trip at %v", base, target, v)
			}
		}
	}
}

// Duration formulas on the seconds base unit must be accepted by the
// evaluator's duration dispatch.
func TestDurationConversionsEvaluate(t *testing.T) {
	p := New()
	meta := p.ConversionsForBaseUnit(BaseSeconds)
	require.NotNil(t, meta)

	res, err := formula.Evaluate(meta.Conversions["duration-compact"].Formula, 3725)
	require.NoError(t, err)
	assert.Equal(t, "1h 2m", res.Text)
}
