package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motamman/signalk-units-preference-sub000/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	return s
}

func TestNewEmptyDir(t *testing.T) {
	s := newTestStore(t)
	prefs := s.Preferences()
	require.NotNil(t, prefs)
	assert.Empty(t, prefs.Categories)
	assert.Empty(t, prefs.PathOverrides)
}

func TestSetCategoryPreferencePersistsAndReloads(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.SetCategoryPreference("speed", types.CategoryPreference{
		TargetUnit:    "knots",
		DisplayFormat: "0.0",
	}))

	reopened, err := New(dir)
	require.NoError(t, err)
	pref, ok := reopened.Preferences().Categories["speed"]
	require.True(t, ok)
	assert.Equal(t, "knots", pref.TargetUnit)
	assert.Equal(t, "0.0", pref.DisplayFormat)
}

func TestMutationFiresChangeHooks(t *testing.T) {
	s := newTestStore(t)

	fired := 0
	s.OnChange(func() { fired++ })

	require.NoError(t, s.SetCategoryPreference("speed", types.CategoryPreference{TargetUnit: "knots"}))
	assert.Equal(t, 1, fired)

	require.NoError(t, s.DeleteCategoryPreference("speed"))
	assert.Equal(t, 2, fired)
}

func TestPreferencesReturnsCopy(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetCategoryPreference("speed", types.CategoryPreference{TargetUnit: "knots"}))

	prefs := s.Preferences()
	prefs.Categories["speed"] = types.CategoryPreference{TargetUnit: "mph"}

	again := s.Preferences()
	assert.Equal(t, "knots", again.Categories["speed"].TargetUnit)
}

func TestUpsertPatternRuleReplacesByPattern(t *testing.T) {
	s := newTestStore(t)

	require.NoError(t, s.UpsertPatternRule(types.PathPatternRule{
		Pattern: "environment.**", Category: "temperature", Priority: 50,
	}))
	require.NoError(t, s.UpsertPatternRule(types.PathPatternRule{
		Pattern: "tanks.*.level", Category: "ratio", Priority: 100,
	}))
	require.NoError(t, s.UpsertPatternRule(types.PathPatternRule{
		Pattern: "environment.**", Category: "pressure", Priority: 60,
	}))

	rules := s.Preferences().PathPatterns
	require.Len(t, rules, 2)
	assert.Equal(t, "pressure", rules[0].Category, "replacement keeps original position")
	assert.Equal(t, "tanks.*.level", rules[1].Pattern)
}

func TestUpsertPatternRuleRejectsInvalid(t *testing.T) {
	s := newTestStore(t)
	err := s.UpsertPatternRule(types.PathPatternRule{Pattern: "  "})
	require.Error(t, err)
}

func TestSetCustomConversionRejectsUnsafeFormula(t *testing.T) {
	s := newTestStore(t)

	err := s.SetCustomConversion("m/s", "evil", types.ConversionDefinition{
		Formula: "require('fs')", Symbol: "x",
	})
	require.Error(t, err)

	assert.Nil(t, s.CustomConversions("m/s"))
}

func TestSetCustomConversionRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	require.NoError(t, err)

	require.NoError(t, s.SetCustomConversion("m/s", "furlong/fortnight", types.ConversionDefinition{
		Formula:        "value * 6012.8848",
		InverseFormula: "value / 6012.8848",
		Symbol:         "fur/ftn",
	}))

	reopened, err := New(dir)
	require.NoError(t, err)
	table := reopened.CustomConversions("m/s")
	require.Contains(t, table, "furlong/fortnight")
	assert.Equal(t, "fur/ftn", table["furlong/fortnight"].Symbol)
	assert.Equal(t, []string{"m/s"}, reopened.CustomBaseUnits())
}

func TestDeleteCustomConversionDropsEmptyTable(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetCustomConversion("m/s", "x", types.ConversionDefinition{Formula: "value * 2", Symbol: "x"}))
	require.NoError(t, s.DeleteCustomConversion("m/s", "x"))
	assert.Empty(t, s.CustomBaseUnits())
}

func TestSetPathMetadataValidatesConversions(t *testing.T) {
	s := newTestStore(t)

	err := s.SetPathMetadata("sensors.custom", types.UnitMetadata{
		BaseUnit: "Pa",
		Category: "pressure",
		Conversions: map[string]types.ConversionDefinition{
			"bad": {Formula: "eval(value)", Symbol: "?"},
		},
	})
	require.Error(t, err)

	require.NoError(t, s.SetPathMetadata("sensors.custom", types.UnitMetadata{
		BaseUnit: "Pa",
		Category: "pressure",
		Conversions: map[string]types.ConversionDefinition{
			"hPa": {Formula: "value / 100", Symbol: "hPa"},
		},
	}))
}

func TestLoadRejectsMalformedDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, preferencesFile),
		[]byte(`{"categories": {"speed": {"targetUnit": 42}}}`), 0o644))

	_, err := New(dir)
	require.Error(t, err)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetCategoryPreference("speed", types.CategoryPreference{TargetUnit: "knots"}))
	require.NoError(t, s.SetCustomConversion("m/s", "x", types.ConversionDefinition{Formula: "value * 2", Symbol: "x"}))

	bundle := s.Backup()
	require.NotNil(t, bundle)

	dest := newTestStore(t)
	fired := 0
	dest.OnChange(func() { fired++ })
	require.NoError(t, dest.Restore(bundle))

	assert.Equal(t, 1, fired)
	assert.Equal(t, "knots", dest.Preferences().Categories["speed"].TargetUnit)
	assert.Contains(t, dest.CustomConversions("m/s"), "x")
}

func TestRestoreRejectsBadBundle(t *testing.T) {
	s := newTestStore(t)

	require.Error(t, s.Restore(nil))
	require.Error(t, s.Restore(&Bundle{Version: 99}))

	bad := &Bundle{
		Version: bundleVersion,
		CustomUnits: types.CustomUnits{
			"m/s": {"evil": {Formula: "system('x')", Symbol: "!"}},
		},
	}
	require.Error(t, s.Restore(bad))
}

func TestApplyPreset(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.SetCategoryPreference("voltage", types.CategoryPreference{TargetUnit: "mV"}))

	require.NoError(t, s.ApplyPreset("nautical"))

	prefs := s.Preferences()
	assert.Equal(t, "knots", prefs.Categories["speed"].TargetUnit)
	assert.Equal(t, "nm", prefs.Categories["distance"].TargetUnit)
	assert.Equal(t, "mV", prefs.Categories["voltage"].TargetUnit, "untouched category survives")

	require.Error(t, s.ApplyPreset("klingon"))
	assert.Contains(t, s.PresetNames(), "imperial")
}
