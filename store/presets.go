package store

import (
	"fmt"
	"sort"

	"github.com/motamman/signalk-units-preference-sub000/errors"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// builtinPresets are complete category-preference bundles applied in one step.
// Applying one replaces the category preferences it names; categories it does
// not name are left alone.
var builtinPresets = map[string]types.Preset{
	"metric": {
		Name:        "metric",
		Description: "SI-adjacent units: km/h, Celsius, meters, liters",
		Categories: map[string]types.CategoryPreference{
			"speed":           {TargetUnit: "km/h", DisplayFormat: "0.0"},
			"windSpeed":       {TargetUnit: "km/h", DisplayFormat: "0.0"},
			"temperature":     {TargetUnit: "celsius", DisplayFormat: "0.0"},
			"pressure":        {TargetUnit: "hPa", DisplayFormat: "0"},
			"angle":           {TargetUnit: "deg", DisplayFormat: "0"},
			"angularVelocity": {TargetUnit: "deg/s", DisplayFormat: "0.0"},
			"distance":        {TargetUnit: "km", DisplayFormat: "0.00"},
			"depth":           {TargetUnit: "m", DisplayFormat: "0.0"},
			"volume":          {TargetUnit: "liter", DisplayFormat: "0"},
			"volumeRate":      {TargetUnit: "L/h", DisplayFormat: "0.0"},
			"ratio":           {TargetUnit: "percent", DisplayFormat: "0"},
		},
	},
	"imperial": {
		Name:        "imperial",
		Description: "Imperial units: mph, Fahrenheit, miles, gallons",
		Categories: map[string]types.CategoryPreference{
			"speed":           {TargetUnit: "mph", DisplayFormat: "0.0"},
			"windSpeed":       {TargetUnit: "mph", DisplayFormat: "0.0"},
			"temperature":     {TargetUnit: "fahrenheit", DisplayFormat: "0.0"},
			"pressure":        {TargetUnit: "inHg", DisplayFormat: "0.00"},
			"angle":           {TargetUnit: "deg", DisplayFormat: "0"},
			"angularVelocity": {TargetUnit: "deg/s", DisplayFormat: "0.0"},
			"distance":        {TargetUnit: "mi", DisplayFormat: "0.00"},
			"depth":           {TargetUnit: "ft", DisplayFormat: "0.0"},
			"volume":          {TargetUnit: "gallon", DisplayFormat: "0"},
			"volumeRate":      {TargetUnit: "gal/h", DisplayFormat: "0.0"},
			"ratio":           {TargetUnit: "percent", DisplayFormat: "0"},
		},
	},
	"nautical": {
		Name:        "nautical",
		Description: "Marine conventions: knots, nautical miles, fathoms",
		Categories: map[string]types.CategoryPreference{
			"speed":           {TargetUnit: "knots", DisplayFormat: "0.0"},
			"windSpeed":       {TargetUnit: "knots", DisplayFormat: "0.0"},
			"temperature":     {TargetUnit: "celsius", DisplayFormat: "0.0"},
			"pressure":        {TargetUnit: "hPa", DisplayFormat: "0"},
			"angle":           {TargetUnit: "deg", DisplayFormat: "0"},
			"angularVelocity": {TargetUnit: "deg/min", DisplayFormat: "0"},
			"distance":        {TargetUnit: "nm", DisplayFormat: "0.00"},
			"depth":           {TargetUnit: "m", DisplayFormat: "0.0"},
			"volume":          {TargetUnit: "liter", DisplayFormat: "0"},
			"volumeRate":      {TargetUnit: "L/h", DisplayFormat: "0.0"},
			"ratio":           {TargetUnit: "percent", DisplayFormat: "0"},
		},
	},
}

// PresetNames lists the available presets, sorted.
func (s *Store) PresetNames() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset returns one preset by name.
func (s *Store) Preset(name string) (types.Preset, bool) {
	p, ok := builtinPresets[name]
	return p, ok
}

// ApplyPreset overwrites the category preferences named by the preset and
// persists the result.
func (s *Store) ApplyPreset(name string) error {
	preset, ok := builtinPresets[name]
	if !ok {
		return errors.Wrap(fmt.Errorf("unknown preset %q", name), "store", "ApplyPreset", "look up preset")
	}
	return s.mutate("ApplyPreset", func() {
		for category, pref := range preset.Categories {
			s.prefs.Categories[category] = pref
		}
	})
}
