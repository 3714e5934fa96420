package convert

import (
	"strings"

	"github.com/motamman/signalk-units-preference-sub000/errors"
	"github.com/motamman/signalk-units-preference-sub000/formula"
	"github.com/motamman/signalk-units-preference-sub000/metric"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// UnitValueOptions tunes an ad-hoc unit conversion.
type UnitValueOptions struct {
	// DisplayFormat overrides the precision pattern, e.g. "0.00".
	DisplayFormat string
}

// ConvertUnitValue converts a raw value from one unit to another with no path
// involved: defaults plus custom definitions for the base unit are consulted
// directly. Unlike the path entry points, a target with no matching definition
// is a ConversionNotFoundError rather than a pass-through, since the caller
// asked for that target explicitly.
func (e *Engine) ConvertUnitValue(baseUnit, targetUnit string, raw any, opts UnitValueOptions) (*types.UnitValueResult, error) {
	meta := e.defaults.ConversionsForBaseUnit(baseUnit)
	if meta == nil {
		meta = &types.UnitMetadata{
			BaseUnit: baseUnit,
			Category: types.CategoryNone,
		}
	} else {
		meta = meta.Clone()
	}
	// Custom definitions win on key collision, same as path resolution.
	if custom := e.prefs.CustomConversions(baseUnit); len(custom) > 0 {
		if meta.Conversions == nil {
			meta.Conversions = make(map[string]types.ConversionDefinition, len(custom))
		}
		for k, def := range custom {
			meta.Conversions[k] = def
		}
	}

	sel := selection{
		baseUnit:      baseUnit,
		category:      meta.Category,
		displayFormat: opts.DisplayFormat,
	}

	lookup := targetUnit
	if strings.HasSuffix(lookup, localSuffix) {
		sel.forceLocal = true
		lookup = strings.TrimSuffix(lookup, localSuffix)
	}

	if lookup == baseUnit {
		sel.targetUnit = lookup
		sel.def = types.ConversionDefinition{Formula: formula.Identity}
	} else {
		def, ok := e.findConversion(meta, lookup)
		if !ok {
			return nil, &errors.ConversionNotFoundError{BaseUnit: baseUnit, TargetUnit: targetUnit}
		}
		sel.targetUnit = lookup
		sel.def = def
	}

	kind := types.KindOf(raw)
	if e.defaults.IsDateBaseUnit(baseUnit) || sel.def.IsDate() {
		kind = types.KindDate
	}

	result, err := e.execute("", sel, kind, raw)
	if err != nil {
		e.countConversion("unit", metric.OutcomeError)
		return nil, err
	}
	e.countConversion("unit", metric.OutcomeConverted)

	return &types.UnitValueResult{
		ConvertedValue: result.Converted,
		Formatted:      result.Formatted,
		Symbol:         sel.def.Symbol,
		DisplayFormat:  sel.displayFormat,
		ValueType:      kind.String(),
		DateFormat:     sel.def.DateFormat,
		UseLocalTime:   sel.def.UseLocalTime || sel.forceLocal,
	}, nil
}
