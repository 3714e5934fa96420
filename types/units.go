// Package types contains shared domain types used across the units-preference engine.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// CategoryNone is the category reported when no metadata could be resolved
// for a path and the value passes through unchanged.
const CategoryNone = "none"

// ConversionDefinition describes how to convert a value from a base unit to
// one target unit. Formula and InverseFormula are expressions over the single
// free variable "value". Date-kind conversions carry DateFormat/UseLocalTime
// instead of a formula.
type ConversionDefinition struct {
	Formula        string `json:"formula,omitempty"`
	InverseFormula string `json:"inverseFormula,omitempty"`
	Symbol         string `json:"symbol"`
	LongName       string `json:"longName,omitempty"`
	DateFormat     string `json:"dateFormat,omitempty"`
	UseLocalTime   bool   `json:"useLocalTime,omitempty"`
}

// HasFormula reports whether the definition carries an executable formula.
func (d ConversionDefinition) HasFormula() bool {
	return strings.TrimSpace(d.Formula) != ""
}

// IsDate reports whether the definition renders a date rather than a number.
func (d ConversionDefinition) IsDate() bool {
	return d.DateFormat != ""
}

// UnitMetadata is the resolved unit information for one path: the canonical
// base unit its raw values are expressed in, the physical-quantity category,
// and the table of available target conversions keyed by target unit.
//
// An empty BaseUnit means no base unit is known (the JS-era null). Conversion
// keys are unique by construction of the map; the base unit's own identity
// conversion is always derivable as a pass-through and need not be present.
type UnitMetadata struct {
	BaseUnit    string                          `json:"baseUnit,omitempty"`
	Category    string                          `json:"category"`
	Conversions map[string]ConversionDefinition `json:"conversions"`
}

// Clone returns a deep copy. Resolved metadata is handed to callers that must
// never mutate shared cache entries.
func (m *UnitMetadata) Clone() *UnitMetadata {
	if m == nil {
		return nil
	}
	out := &UnitMetadata{
		BaseUnit:    m.BaseUnit,
		Category:    m.Category,
		Conversions: make(map[string]ConversionDefinition, len(m.Conversions)),
	}
	for k, v := range m.Conversions {
		out.Conversions[k] = v
	}
	return out
}

// TargetUnits returns the conversion keys in sorted order.
func (m *UnitMetadata) TargetUnits() []string {
	if m == nil {
		return nil
	}
	keys := make([]string, 0, len(m.Conversions))
	for k := range m.Conversions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Validate checks structural invariants of the metadata.
func (m *UnitMetadata) Validate() error {
	if m == nil {
		return fmt.Errorf("metadata is nil")
	}
	if m.Category == "" {
		return fmt.Errorf("metadata category cannot be empty")
	}
	return nil
}

// CategoryPreference is a user's unit and precision choice for an entire
// quantity category. When used as a path override, BaseUnit and Category may
// pin the unit resolution for that exact path.
type CategoryPreference struct {
	TargetUnit    string `json:"targetUnit"`
	DisplayFormat string `json:"displayFormat"`
	BaseUnit      string `json:"baseUnit,omitempty"`
	Category      string `json:"category,omitempty"`
}

// PathPatternRule assigns a category (and optionally a base unit, target unit
// and display format) to every path matching a wildcard pattern. Rules are
// evaluated highest Priority first; ties keep their original order.
type PathPatternRule struct {
	Pattern       string `json:"pattern"`
	Category      string `json:"category"`
	BaseUnit      string `json:"baseUnit,omitempty"`
	TargetUnit    string `json:"targetUnit,omitempty"`
	DisplayFormat string `json:"displayFormat,omitempty"`
	Priority      int    `json:"priority"`
}

// Validate ensures the rule is usable by the pattern matcher.
func (r PathPatternRule) Validate() error {
	if strings.TrimSpace(r.Pattern) == "" {
		return fmt.Errorf("pattern rule: pattern cannot be empty")
	}
	if r.Category == "" && r.BaseUnit == "" {
		return fmt.Errorf("pattern rule %q: needs a category or a base unit", r.Pattern)
	}
	return nil
}

// Preferences is the full user preference document consumed by the resolver
// and converter. The core treats it as read-only input per call; mutation is
// owned by the store.
type Preferences struct {
	// Categories maps category name to the preferred target unit/format.
	Categories map[string]CategoryPreference `json:"categories"`
	// PathOverrides maps an exact path to a preference; highest precedence.
	PathOverrides map[string]CategoryPreference `json:"pathOverrides"`
	// PathPatterns are wildcard rules, consulted after overrides.
	PathPatterns []PathPatternRule `json:"pathPatterns"`
	// PathMetadata holds explicitly defined per-path unit metadata.
	PathMetadata map[string]UnitMetadata `json:"pathMetadata,omitempty"`
}

// NewPreferences returns an empty, fully initialized document.
func NewPreferences() *Preferences {
	return &Preferences{
		Categories:    make(map[string]CategoryPreference),
		PathOverrides: make(map[string]CategoryPreference),
		PathPatterns:  nil,
		PathMetadata:  make(map[string]UnitMetadata),
	}
}

// Clone returns a deep copy of the document.
func (p *Preferences) Clone() *Preferences {
	if p == nil {
		return NewPreferences()
	}
	out := &Preferences{
		Categories:    make(map[string]CategoryPreference, len(p.Categories)),
		PathOverrides: make(map[string]CategoryPreference, len(p.PathOverrides)),
		PathPatterns:  append([]PathPatternRule(nil), p.PathPatterns...),
		PathMetadata:  make(map[string]UnitMetadata, len(p.PathMetadata)),
	}
	for k, v := range p.Categories {
		out.Categories[k] = v
	}
	for k, v := range p.PathOverrides {
		out.PathOverrides[k] = v
	}
	for k, v := range p.PathMetadata {
		out.PathMetadata[k] = *v.Clone()
	}
	return out
}

// CustomUnits maps base unit -> target unit -> definition. User-defined
// conversion tables merged over the built-in defaults (custom wins on key
// collision).
type CustomUnits map[string]map[string]ConversionDefinition

// Clone returns a deep copy of the custom unit tables.
func (c CustomUnits) Clone() CustomUnits {
	out := make(CustomUnits, len(c))
	for base, table := range c {
		t := make(map[string]ConversionDefinition, len(table))
		for k, v := range table {
			t[k] = v
		}
		out[base] = t
	}
	return out
}

// Preset is a named bundle of category preferences that can be applied in one
// step (e.g. "metric", "imperial").
type Preset struct {
	Name        string                        `json:"name"`
	Description string                        `json:"description,omitempty"`
	Categories  map[string]CategoryPreference `json:"categories"`
}
