// Package defaults holds the built-in conversion tables and the category to
// base-unit taxonomy. It implements the BaseUnitDefaultsProvider side of the
// resolver: read-only lookups over data that custom definitions may overlay
// at runtime.
package defaults

import (
	"sort"
	"strings"

	"github.com/motamman/signalk-units-preference-sub000/types"
)

// Provider serves the built-in tables. All state is immutable after New, so
// the zero-allocation lookups are safe for concurrent use.
type Provider struct {
	categories  map[string]categoryDef
	conversions map[string]map[string]types.ConversionDefinition

	// byBaseUnit maps base unit -> sorted category names.
	byBaseUnit map[string][]string
}

// New builds a Provider over the built-in tables.
func New() *Provider {
	p := &Provider{
		categories:  builtinCategories,
		conversions: builtinConversions,
		byBaseUnit:  make(map[string][]string),
	}
	for name, def := range builtinCategories {
		p.byBaseUnit[def.baseUnit] = append(p.byBaseUnit[def.baseUnit], name)
	}
	for _, names := range p.byBaseUnit {
		sort.Strings(names)
	}
	return p
}

// ConversionsForBaseUnit returns metadata for a base unit, or nil when the
// base unit has no built-in table. Date-kind base units get the date-format
// conversions appended dynamically. The category reported is the
// lexicographically first category using the base unit; the resolver refines
// it per path.
func (p *Provider) ConversionsForBaseUnit(baseUnit string) *types.UnitMetadata {
	table, known := p.conversions[baseUnit]
	isDate := p.IsDateBaseUnit(baseUnit)
	if !known && !isDate {
		return nil
	}

	meta := &types.UnitMetadata{
		BaseUnit:    baseUnit,
		Category:    p.firstCategoryFor(baseUnit),
		Conversions: make(map[string]types.ConversionDefinition, len(table)+len(dateFormatConversions)),
	}
	for k, v := range table {
		meta.Conversions[k] = v
	}
	if isDate {
		for k, v := range dateFormatConversions {
			meta.Conversions[k] = v
		}
	}
	return meta
}

// BaseUnitForCategory returns the canonical base unit for a category.
func (p *Provider) BaseUnitForCategory(category string) (string, bool) {
	def, ok := p.categories[category]
	if !ok {
		return "", false
	}
	return def.baseUnit, true
}

// CategoriesForBaseUnit returns the sorted category names sharing a base
// unit. Empty for unknown base units.
func (p *Provider) CategoriesForBaseUnit(baseUnit string) []string {
	return p.byBaseUnit[baseUnit]
}

// CategoryNames returns all category names, sorted.
func (p *Provider) CategoryNames() []string {
	names := make([]string, 0, len(p.categories))
	for name := range p.categories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CategoryDescription returns the human-readable description of a category.
func (p *Provider) CategoryDescription(category string) string {
	return p.categories[category].description
}

// IsDateBaseUnit reports whether a base unit denotes an instant rather than
// a scalar quantity.
func (p *Provider) IsDateBaseUnit(baseUnit string) bool {
	switch baseUnit {
	case BaseRFC3339, BaseEpochSec, BaseEpochMillis:
		return true
	}
	return false
}

// IsEpochMillisBaseUnit reports whether numeric values in this base unit are
// epoch milliseconds rather than epoch seconds.
func (p *Provider) IsEpochMillisBaseUnit(baseUnit string) bool {
	lower := strings.ToLower(baseUnit)
	return strings.Contains(lower, "epoch") && strings.Contains(lower, "milli")
}

// firstCategoryFor returns the lexicographically first category for a base
// unit, or "none" when the base unit is not in the taxonomy.
func (p *Provider) firstCategoryFor(baseUnit string) string {
	if names := p.byBaseUnit[baseUnit]; len(names) > 0 {
		return names[0]
	}
	return types.CategoryNone
}
