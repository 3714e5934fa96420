package resolver

import (
	"strings"

	"github.com/motamman/signalk-units-preference-sub000/pattern"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// stageKnown serves metadata explicitly defined for the exact path in the
// preference document.
func (r *Resolver) stageKnown(path string) *types.UnitMetadata {
	prefs := r.prefs.Preferences()
	if prefs == nil {
		return nil
	}
	meta, ok := prefs.PathMetadata[path]
	if !ok {
		return nil
	}
	out := meta.Clone()
	if out.Category == "" {
		out.Category = r.pickCategory(out.BaseUnit, path)
	}
	return out
}

// stageOverride builds metadata from a path-specific override that names a
// base unit directly or a category the base unit derives from.
func (r *Resolver) stageOverride(path string) *types.UnitMetadata {
	prefs := r.prefs.Preferences()
	if prefs == nil {
		return nil
	}
	ov, ok := prefs.PathOverrides[path]
	if !ok {
		return nil
	}

	baseUnit := ov.BaseUnit
	if baseUnit == "" && ov.Category != "" {
		baseUnit, _ = r.defaults.BaseUnitForCategory(ov.Category)
	}
	if baseUnit == "" {
		return nil
	}

	category := ov.Category
	if category == "" {
		category = r.pickCategory(baseUnit, path)
	}
	return r.buildForBaseUnit(baseUnit, category)
}

// stagePattern consults the highest-priority wildcard rule matching the path.
func (r *Resolver) stagePattern(path string) *types.UnitMetadata {
	prefs := r.prefs.Preferences()
	if prefs == nil {
		return nil
	}
	rule, ok := pattern.FindMatch(path, prefs.PathPatterns)
	if !ok {
		return nil
	}

	baseUnit := rule.BaseUnit
	if baseUnit == "" && rule.Category != "" {
		baseUnit, _ = r.defaults.BaseUnitForCategory(rule.Category)
	}
	if baseUnit == "" {
		return nil
	}

	category := rule.Category
	if category == "" {
		category = r.pickCategory(baseUnit, path)
	}
	return r.buildForBaseUnit(baseUnit, category)
}

// stageLive maps the externally reported live-telemetry unit string back to
// a known base unit when possible. Unrecognized unit strings still produce
// metadata with the literal string as base unit so the caller can at least
// report it.
func (r *Resolver) stageLive(path string) *types.UnitMetadata {
	if r.live == nil {
		return nil
	}
	lm, ok := r.live.Metadata(path)
	if !ok || strings.TrimSpace(lm.Units) == "" {
		return nil
	}

	units := strings.TrimSpace(lm.Units)
	if len(r.defaults.CategoriesForBaseUnit(units)) > 0 || r.defaults.ConversionsForBaseUnit(units) != nil {
		return r.buildForBaseUnit(units, r.pickCategory(units, path))
	}

	// Literal, unrecognized unit: pass-through metadata, possibly enriched
	// by user-defined conversions for that unit string.
	meta := &types.UnitMetadata{
		BaseUnit:    units,
		Category:    types.CategoryNone,
		Conversions: make(map[string]types.ConversionDefinition),
	}
	for k, v := range r.prefs.CustomConversions(units) {
		meta.Conversions[k] = v
	}
	return meta
}

// stageHeuristic infers a category from the path's final dot-separated
// segment: a case-insensitive substring match against exactly one known
// category name wins.
func (r *Resolver) stageHeuristic(path string) *types.UnitMetadata {
	segment := lastSegment(path)
	if segment == "" {
		return nil
	}
	lower := strings.ToLower(segment)

	var matched []string
	for _, name := range r.defaults.CategoryNames() {
		if strings.Contains(lower, strings.ToLower(name)) {
			matched = append(matched, name)
		}
	}
	if len(matched) != 1 {
		return nil
	}

	category := matched[0]
	baseUnit, ok := r.defaults.BaseUnitForCategory(category)
	if !ok {
		return nil
	}
	return r.buildForBaseUnit(baseUnit, category)
}

// buildForBaseUnit merges the built-in conversions for a base unit with the
// user's custom conversions for the same base unit. Custom wins on key
// collision.
func (r *Resolver) buildForBaseUnit(baseUnit, category string) *types.UnitMetadata {
	meta := &types.UnitMetadata{
		BaseUnit:    baseUnit,
		Category:    category,
		Conversions: make(map[string]types.ConversionDefinition),
	}
	if def := r.defaults.ConversionsForBaseUnit(baseUnit); def != nil {
		for k, v := range def.Conversions {
			meta.Conversions[k] = v
		}
	}
	for k, v := range r.prefs.CustomConversions(baseUnit) {
		meta.Conversions[k] = v
	}
	return meta
}

// pickCategory chooses a category for a base unit shared by several
// categories: a category whose name appears in the path's last segment wins;
// otherwise the lexicographically first candidate, so the choice is
// deterministic across runs.
func (r *Resolver) pickCategory(baseUnit, path string) string {
	candidates := r.defaults.CategoriesForBaseUnit(baseUnit)
	switch len(candidates) {
	case 0:
		return types.CategoryNone
	case 1:
		return candidates[0]
	}

	lower := strings.ToLower(lastSegment(path))
	for _, name := range candidates {
		if strings.Contains(lower, strings.ToLower(name)) {
			return name
		}
	}
	// CategoriesForBaseUnit returns sorted names, so candidates[0] is the
	// lexicographic fallback.
	return candidates[0]
}

func lastSegment(path string) string {
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
