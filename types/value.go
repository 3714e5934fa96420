package types

import (
	"encoding/json"
	"fmt"
	"regexp"
	"time"
)

// ValueKind classifies the runtime kind of a telemetry value. The converter
// switches exhaustively over this closed set; adding a kind is a
// compile-time-visible change.
type ValueKind int

// Value kind constants, ordered roughly by how often they occur on the wire.
const (
	KindNumber ValueKind = iota
	KindBoolean
	KindString
	KindDate
	KindObject
	KindUnknown
)

// String implements fmt.Stringer for ValueKind.
func (k ValueKind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindObject:
		return "object"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("ValueKind(%d)", int(k))
	}
}

// MarshalJSON renders the kind as its string name.
func (k ValueKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// rfc3339Shape matches strings that look like RFC 3339 instants, with or
// without fractional seconds and with either Z or a numeric offset.
var rfc3339Shape = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)

// LooksLikeRFC3339 reports whether s has the shape of an RFC 3339 instant.
// Shape only; use time.Parse for actual validation.
func LooksLikeRFC3339(s string) bool {
	return rfc3339Shape.MatchString(s)
}

// KindOf classifies a raw sample value by its runtime type. RFC 3339-shaped
// strings are promoted to KindDate.
func KindOf(v any) ValueKind {
	switch val := v.(type) {
	case nil:
		return KindUnknown
	case float64, float32, int, int32, int64, uint, uint32, uint64, json.Number:
		return KindNumber
	case bool:
		return KindBoolean
	case string:
		if LooksLikeRFC3339(val) {
			return KindDate
		}
		return KindString
	case time.Time:
		return KindDate
	case map[string]any, []any:
		return KindObject
	default:
		return KindUnknown
	}
}

// AsFloat coerces numeric runtime types to float64. The second return is
// false for non-numeric input.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
