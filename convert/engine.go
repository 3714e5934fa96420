// Package convert selects and executes unit conversions: given resolved
// metadata and the user's preference it picks exactly one target conversion
// and applies it, dispatched on the value kind.
//
// Two entry points carry two deliberately different error policies. The
// streaming path (SelectAndConvert) never fails: evaluator and date errors
// are logged and degrade to pass-through, so one bad custom formula cannot
// halt a delta stream. The request path (ConvertPathValue, ConvertUnitValue)
// propagates typed errors for the boundary layer to map to status codes.
package convert

import (
	"log/slog"

	"github.com/motamman/signalk-units-preference-sub000/metric"
	"github.com/motamman/signalk-units-preference-sub000/resolver"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// Engine wires the resolver, preference data, and defaults into the
// conversion entry points. Stateless apart from what the resolver memoizes;
// identical inputs always produce identical results.
type Engine struct {
	resolver *resolver.Resolver
	prefs    resolver.PreferenceProvider
	defaults resolver.DefaultsProvider

	logger  *slog.Logger
	metrics *metric.Registry
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithMetrics enables conversion counters.
func WithMetrics(m *metric.Registry) Option {
	return func(e *Engine) { e.metrics = m }
}

// NewEngine creates a conversion engine.
func NewEngine(res *resolver.Resolver, prefs resolver.PreferenceProvider, defs resolver.DefaultsProvider, opts ...Option) *Engine {
	e := &Engine{
		resolver: res,
		prefs:    prefs,
		defaults: defs,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve returns the unit metadata for a path, or nil when unresolvable.
func (e *Engine) Resolve(path string) *types.UnitMetadata {
	return e.resolver.Resolve(path)
}

// GetConversion reports the conversion that would be applied to a path,
// without converting a value. An unresolvable path is not an error: it
// yields the pass-through response with base and target unit "none".
func (e *Engine) GetConversion(path string) *types.ConversionResponse {
	meta := e.resolver.Resolve(path)
	sel := e.selectTarget(path, meta)
	kind := e.resolver.ClassifyValueKind(path, meta)

	resp := &types.ConversionResponse{
		Path:           path,
		BaseUnit:       sel.baseUnit,
		TargetUnit:     sel.targetUnit,
		Category:       sel.category,
		Formula:        sel.def.Formula,
		InverseFormula: sel.def.InverseFormula,
		Symbol:         sel.def.Symbol,
		DisplayFormat:  sel.displayFormat,
		ValueType:      kind.String(),
		DateFormat:     sel.def.DateFormat,
		UseLocalTime:   sel.def.UseLocalTime || sel.forceLocal,
	}
	if resp.BaseUnit == "" {
		resp.BaseUnit = types.CategoryNone
	}
	if resp.TargetUnit == "" {
		resp.TargetUnit = types.CategoryNone
	}
	return resp
}

// SelectAndConvert is the streaming entry point: it converts one path value
// and never fails. Conversion errors are logged and the raw value passes
// through unchanged, so a bad formula cannot stall the delta stream.
func (e *Engine) SelectAndConvert(path string, raw any) *types.ConversionResult {
	result, err := e.convertPath(path, raw)
	if err != nil {
		e.logger.Warn("conversion degraded to pass-through",
			"path", path, "error", err)
		e.countConversion("stream", metric.OutcomeError)
		return e.passThrough(path, raw, e.resolver.Resolve(path))
	}
	e.countConversion("stream", outcomeOf(result))
	return result
}

// ConvertPathValue is the request/response entry point: it converts one path
// value and propagates typed errors (InvalidInputError, UnsafeFormulaError,
// FormulaEvaluationError, DateFormatError) for the boundary layer to map.
// An unresolvable path is not an error; the value passes through with
// category "none".
func (e *Engine) ConvertPathValue(path string, raw any) (*types.ConversionResult, error) {
	result, err := e.convertPath(path, raw)
	if err != nil {
		e.countConversion("request", metric.OutcomeError)
		return nil, err
	}
	e.countConversion("request", outcomeOf(result))
	return result, nil
}

// convertPath is the shared conversion pipeline behind both entry points.
func (e *Engine) convertPath(path string, raw any) (*types.ConversionResult, error) {
	meta := e.resolver.Resolve(path)
	if meta == nil {
		return e.passThrough(path, raw, nil), nil
	}

	sel := e.selectTarget(path, meta)
	kind := e.resolver.ClassifyValueKind(path, meta)
	return e.execute(path, sel, kind, raw)
}

func (e *Engine) countConversion(entrypoint, outcome string) {
	if e.metrics != nil {
		e.metrics.ConversionsTotal.WithLabelValues(entrypoint, outcome).Inc()
	}
}

func outcomeOf(result *types.ConversionResult) string {
	// Keyed on the selection, not the units label: a pass-through can still
	// carry a literal live unit string.
	if result.PassThrough {
		return metric.OutcomePassThrough
	}
	return metric.OutcomeConverted
}
