package convert

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/motamman/signalk-units-preference-sub000/errors"
	"github.com/motamman/signalk-units-preference-sub000/formula"
	"github.com/motamman/signalk-units-preference-sub000/pkg/timestamp"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// epochSecondsFormat is the special-cased date "pattern" that yields integer
// epoch seconds instead of a formatted string.
const epochSecondsFormat = "epoch-seconds"

// execute applies one selected conversion to a raw value, dispatched
// exhaustively on the value kind.
func (e *Engine) execute(path string, sel selection, kind types.ValueKind, raw any) (*types.ConversionResult, error) {
	switch kind {
	case types.KindNumber:
		return e.executeNumber(path, sel, raw)
	case types.KindDate:
		return e.executeDate(path, sel, raw)
	case types.KindBoolean:
		b, ok := raw.(bool)
		if !ok {
			return e.result(path, sel, raw, coerceString(raw)), nil
		}
		return e.result(path, sel, raw, strconv.FormatBool(b)), nil
	case types.KindString:
		s, ok := raw.(string)
		if !ok {
			s = coerceString(raw)
		}
		return e.result(path, sel, raw, s), nil
	case types.KindObject:
		return e.result(path, sel, raw, coerceString(raw)), nil
	case types.KindUnknown:
		return e.result(path, sel, raw, coerceString(raw)), nil
	default:
		return e.result(path, sel, raw, coerceString(raw)), nil
	}
}

// executeNumber evaluates the formula and formats to the display precision.
func (e *Engine) executeNumber(path string, sel selection, raw any) (*types.ConversionResult, error) {
	v, ok := types.AsFloat(raw)
	if !ok {
		return nil, &errors.InvalidInputError{Value: raw, Reason: "expected a numeric value"}
	}

	res, err := formula.Evaluate(sel.def.Formula, v)
	if err != nil {
		return nil, err
	}

	if res.Kind == formula.ResultText {
		// Duration formulas produce their own display string.
		out := e.result(path, sel, raw, res.Text)
		out.Converted = res.Text
		return out, nil
	}

	formatted := formula.FormatFixed(res.Number, sel.displayFormat)
	if sel.def.Symbol != "" {
		formatted = strings.TrimSpace(formatted + " " + sel.def.Symbol)
	}
	out := e.result(path, sel, raw, formatted)
	out.Converted = res.Number
	return out, nil
}

// executeDate normalizes the input instant and renders it with the selected
// date format. Numeric input is epoch seconds unless the base-unit name
// denotes epoch milliseconds.
func (e *Engine) executeDate(path string, sel selection, raw any) (*types.ConversionResult, error) {
	t, err := e.normalizeInstant(sel.baseUnit, raw)
	if err != nil {
		return nil, err
	}

	pattern := sel.def.DateFormat
	switch {
	case pattern == epochSecondsFormat:
		secs := t.UnixMilli() / 1000
		out := e.result(path, sel, raw, strconv.FormatInt(secs, 10))
		out.Converted = secs
		return out, nil

	case pattern == "":
		// No date conversion selected: pass through as canonical ISO.
		iso := t.UTC().Format(time.RFC3339)
		out := e.result(path, sel, raw, iso)
		out.Converted = iso
		return out, nil

	default:
		loc, err := formula.LocationFor("", sel.def.UseLocalTime || sel.forceLocal)
		if err != nil {
			return nil, err
		}
		formatted, err := formula.FormatInstant(t, pattern, loc)
		if err != nil {
			return nil, err
		}
		out := e.result(path, sel, raw, formatted)
		out.Converted = formatted
		return out, nil
	}
}

// normalizeInstant accepts an ISO 8601 string, a native time.Time, or a
// numeric epoch and produces a time.Time. Unparseable input is a
// DateFormatError, never silently "now". A numeric epoch takes its scale from
// the base-unit name; when the base unit names no scale (a custom date
// conversion on an arbitrary unit) the magnitude decides.
func (e *Engine) normalizeInstant(baseUnit string, raw any) (time.Time, error) {
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		return formula.ParseInstant(v)
	default:
		f, ok := types.AsFloat(raw)
		if !ok {
			return time.Time{}, &errors.DateFormatError{Input: raw, Reason: "not an instant"}
		}
		if e.defaults.IsDateBaseUnit(baseUnit) {
			return timestamp.FromEpoch(f, e.defaults.IsEpochMillisBaseUnit(baseUnit)), nil
		}
		return timestamp.GuessEpoch(f), nil
	}
}

// result assembles a ConversionResult with its labeling metadata. Converted
// defaults to the raw value (pass-through); number and date executors
// overwrite it.
func (e *Engine) result(path string, sel selection, raw any, formatted string) *types.ConversionResult {
	units := sel.def.Symbol
	if units == "" {
		units = sel.targetUnit
	}
	if units == "" {
		units = types.CategoryNone
	}

	description := ""
	displayName := ""
	originalUnits := sel.baseUnit
	if lm, ok := e.resolver.LiveMetadataFor(path); ok {
		description = lm.Description
		if originalUnits == "" {
			originalUnits = lm.Units
		}
	}
	if idx := strings.LastIndexByte(path, '.'); idx >= 0 {
		displayName = path[idx+1:]
	} else {
		displayName = path
	}

	return &types.ConversionResult{
		Converted:   raw,
		Formatted:   formatted,
		Original:    raw,
		PassThrough: sel.passThrough,
		Metadata: types.ResultMetadata{
			Units:         units,
			DisplayFormat: sel.displayFormat,
			Description:   description,
			OriginalUnits: originalUnits,
			DisplayName:   displayName,
		},
	}
}

// passThrough builds the unconverted result for unresolvable paths and for
// the streaming path's degraded mode.
func (e *Engine) passThrough(path string, raw any, meta *types.UnitMetadata) *types.ConversionResult {
	sel := e.selectTarget(path, nil)
	if meta != nil {
		sel.baseUnit = meta.BaseUnit
		sel.targetUnit = meta.BaseUnit
		sel.category = meta.Category
	}
	return e.result(path, sel, raw, coerceString(raw))
}

// coerceString renders a value for pass-through display: booleans as
// true/false, strings as themselves, objects as JSON, everything else via
// fmt.
func coerceString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case map[string]any, []any:
		if b, err := json.Marshal(val); err == nil {
			return string(b)
		}
		return fmt.Sprintf("%v", val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
