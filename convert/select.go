package convert

import (
	"sort"
	"strings"

	"github.com/motamman/signalk-units-preference-sub000/formula"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// localSuffix on a target unit forces local-time rendering for date
// conversions; it is stripped before table lookup.
const localSuffix = "-local"

// selection is the single chosen conversion plus everything the executor
// needs to apply it.
type selection struct {
	baseUnit      string
	category      string
	targetUnit    string
	def           types.ConversionDefinition
	displayFormat string
	forceLocal    bool
	passThrough   bool
}

// selectTarget picks exactly one target conversion for a path from resolved
// metadata plus the user's preference. When no preference applies, no entry
// matches, or a matched entry lacks a formula, the result is the identity
// pass-through.
func (e *Engine) selectTarget(path string, meta *types.UnitMetadata) selection {
	sel := selection{
		def: types.ConversionDefinition{Formula: formula.Identity},
	}
	if meta == nil {
		sel.category = types.CategoryNone
		sel.passThrough = true
		if lm, ok := e.resolver.LiveMetadataFor(path); ok {
			// Still report the literal unit string when we know one.
			sel.baseUnit = lm.Units
			sel.targetUnit = lm.Units
		}
		return sel
	}

	sel.baseUnit = meta.BaseUnit
	sel.category = meta.Category

	target, displayFormat := e.preferredTarget(path, meta.Category)
	sel.displayFormat = displayFormat
	if target == "" {
		return e.passThroughSelection(sel)
	}

	lookup := target
	if strings.HasSuffix(lookup, localSuffix) {
		sel.forceLocal = true
		lookup = strings.TrimSuffix(lookup, localSuffix)
	}

	// Converting to the base unit itself is always the identity.
	if lookup == meta.BaseUnit {
		sel.targetUnit = lookup
		return sel
	}

	def, ok := e.findConversion(meta, lookup)
	if !ok {
		return e.passThroughSelection(sel)
	}
	if !def.HasFormula() && !def.IsDate() {
		return e.passThroughSelection(sel)
	}

	sel.targetUnit = lookup
	sel.def = def
	return sel
}

// preferredTarget resolves the user's preferred target unit and display
// format for a path: the exact-path override wins, then the category
// preference.
func (e *Engine) preferredTarget(path, category string) (target, displayFormat string) {
	prefs := e.prefs.Preferences()
	if prefs == nil {
		return "", ""
	}

	if ov, ok := prefs.PathOverrides[path]; ok {
		target = ov.TargetUnit
		displayFormat = ov.DisplayFormat
	}

	if cat, ok := prefs.Categories[category]; ok {
		if target == "" {
			target = cat.TargetUnit
		}
		if displayFormat == "" {
			displayFormat = cat.DisplayFormat
		}
	}
	return target, displayFormat
}

// findConversion looks the target up in order: exact key in the metadata's
// own table, case-insensitive longName there, then custom definitions for
// the base unit, then the built-in defaults. First match wins.
func (e *Engine) findConversion(meta *types.UnitMetadata, target string) (types.ConversionDefinition, bool) {
	if def, ok := lookupTable(meta.Conversions, target); ok {
		return def, true
	}
	if def, ok := lookupTable(e.prefs.CustomConversions(meta.BaseUnit), target); ok {
		return def, true
	}
	if defaults := e.defaults.ConversionsForBaseUnit(meta.BaseUnit); defaults != nil {
		if def, ok := lookupTable(defaults.Conversions, target); ok {
			return def, true
		}
	}
	return types.ConversionDefinition{}, false
}

// lookupTable finds target in one conversion table: exact key first, then a
// case-insensitive longName scan in sorted key order so ties are stable.
func lookupTable(table map[string]types.ConversionDefinition, target string) (types.ConversionDefinition, bool) {
	if len(table) == 0 {
		return types.ConversionDefinition{}, false
	}
	if def, ok := table[target]; ok {
		return def, true
	}

	keys := make([]string, 0, len(table))
	for k := range table {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if strings.EqualFold(table[k].LongName, target) {
			return table[k], true
		}
	}
	return types.ConversionDefinition{}, false
}

// passThroughSelection turns a selection into the identity pass-through:
// target = base unit, identity formula, empty symbol.
func (e *Engine) passThroughSelection(sel selection) selection {
	sel.targetUnit = sel.baseUnit
	sel.def = types.ConversionDefinition{Formula: formula.Identity}
	sel.passThrough = true
	return sel
}
