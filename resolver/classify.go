package resolver

import (
	"strings"

	"github.com/motamman/signalk-units-preference-sub000/types"
)

// ClassifyValueKind determines the value kind for a path, in order: known
// date/time unit strings, the runtime type of a previously observed sample
// (RFC 3339-shaped strings promote to date), a unit string with no sample
// defaulting to number, and finally unknown.
func (r *Resolver) ClassifyValueKind(path string, meta *types.UnitMetadata) types.ValueKind {
	unitStr := ""
	if meta != nil {
		unitStr = meta.BaseUnit
	}
	if unitStr == "" {
		if lm, ok := r.LiveMetadataFor(path); ok {
			unitStr = lm.Units
		}
	}

	if unitStr != "" && isDateUnitString(r.defaults, unitStr) {
		return types.KindDate
	}

	if r.live != nil {
		if sample, ok := r.live.Sample(path); ok && sample != nil {
			return types.KindOf(sample)
		}
	}

	if unitStr != "" {
		return types.KindNumber
	}
	return types.KindUnknown
}

// isDateUnitString reports whether a unit string denotes an instant. The
// defaults taxonomy is authoritative; free-form strings mentioning RFC 3339
// or epoch timestamps also count, since live telemetry reports them as such.
func isDateUnitString(defs DefaultsProvider, unit string) bool {
	if defs.IsDateBaseUnit(unit) {
		return true
	}
	lower := strings.ToLower(unit)
	return strings.Contains(lower, "rfc 3339") ||
		strings.Contains(lower, "rfc3339") ||
		strings.Contains(lower, "iso 8601") ||
		strings.Contains(lower, "iso8601") ||
		strings.Contains(lower, "epoch")
}
