// Package resolver produces UnitMetadata for telemetry paths via an ordered,
// short-circuiting precedence chain: explicitly known metadata, path
// overrides, wildcard pattern rules, live telemetry units, and finally a
// heuristic over the path's last segment. Each stage either yields metadata
// or falls through to the next; when all fail the path is unconvertible and
// callers pass values through unchanged.
package resolver

import (
	"log/slog"

	"github.com/motamman/signalk-units-preference-sub000/metric"
	"github.com/motamman/signalk-units-preference-sub000/pkg/cache"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// PreferenceProvider supplies the current preference document and custom
// conversion tables. Implementations must return fresh data per call; the
// resolver never caches preference content, only resolved metadata.
type PreferenceProvider interface {
	Preferences() *types.Preferences
	CustomConversions(baseUnit string) map[string]types.ConversionDefinition
}

// DefaultsProvider supplies the built-in category taxonomy and conversion
// tables.
type DefaultsProvider interface {
	ConversionsForBaseUnit(baseUnit string) *types.UnitMetadata
	BaseUnitForCategory(category string) (string, bool)
	CategoriesForBaseUnit(baseUnit string) []string
	CategoryNames() []string
	CategoryDescription(category string) string
	IsDateBaseUnit(baseUnit string) bool
	IsEpochMillisBaseUnit(baseUnit string) bool
}

// LiveMetadata is the unit/description pair reported by the host's live
// telemetry tree for a path.
type LiveMetadata struct {
	Units       string
	Description string
}

// LiveMetadataProvider exposes live telemetry metadata and, when available,
// a previously observed sample value for a path.
type LiveMetadataProvider interface {
	Metadata(path string) (LiveMetadata, bool)
	Sample(path string) (any, bool)
}

// stage is one step of the precedence chain. A nil return means "fall
// through"; the name feeds the resolution metrics.
type stage struct {
	name string
	run  func(path string) *types.UnitMetadata
}

// Resolver resolves paths to unit metadata. Safe for concurrent use: all
// mutable state lives in the memo cache, which is mutex-guarded.
type Resolver struct {
	prefs    PreferenceProvider
	defaults DefaultsProvider
	live     LiveMetadataProvider

	memo   cache.Cache[*types.UnitMetadata]
	stages []stage

	logger  *slog.Logger
	metrics *metric.Registry
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLiveProvider attaches a live telemetry metadata source (stage 4).
func WithLiveProvider(p LiveMetadataProvider) Option {
	return func(r *Resolver) { r.live = p }
}

// WithMemo replaces the default unbounded memo cache.
func WithMemo(c cache.Cache[*types.UnitMetadata]) Option {
	return func(r *Resolver) { r.memo = c }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Resolver) { r.logger = l }
}

// WithMetrics enables resolution counters.
func WithMetrics(m *metric.Registry) Option {
	return func(r *Resolver) { r.metrics = m }
}

// New creates a Resolver over the given preference and defaults providers.
func New(prefs PreferenceProvider, defs DefaultsProvider, opts ...Option) *Resolver {
	r := &Resolver{
		prefs:    prefs,
		defaults: defs,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.memo == nil {
		memo, err := cache.NewSimple[*types.UnitMetadata]()
		if err != nil {
			// NewSimple cannot fail without options; keep the zero memo
			// path unreachable rather than panicking in a constructor.
			memo = nil
		}
		r.memo = memo
	}

	r.stages = []stage{
		{"known", r.stageKnown},
		{"override", r.stageOverride},
		{"pattern", r.stagePattern},
		{"live", r.stageLive},
		{"heuristic", r.stageHeuristic},
	}
	return r
}

// Resolve returns unit metadata for a path, or nil when no stage can derive
// any. The result is a copy; callers may mutate it freely.
func (r *Resolver) Resolve(path string) *types.UnitMetadata {
	if meta, ok := r.memo.Get(path); ok && meta != nil {
		r.countStage("memo")
		return meta.Clone()
	}

	for i, st := range r.stages {
		meta := st.run(path)
		if meta == nil {
			continue
		}
		r.countStage(st.name)
		// Stage 1 results are already exact lookups; memoizing them
		// would only duplicate the preference document.
		if i > 0 {
			if _, err := r.memo.Set(path, meta.Clone()); err != nil {
				r.logger.Warn("metadata memo set failed", "path", path, "error", err)
			}
		}
		r.logger.Debug("resolved unit metadata",
			"path", path, "stage", st.name,
			"baseUnit", meta.BaseUnit, "category", meta.Category)
		return meta
	}

	r.countStage("none")
	return nil
}

// Invalidate clears the path->metadata memo. The preference owner must call
// this synchronously on every preference, override, pattern, or custom unit
// change; a stale entry would silently serve an outdated conversion forever.
func (r *Resolver) Invalidate() {
	if err := r.memo.Clear(); err != nil {
		r.logger.Warn("metadata memo clear failed", "error", err)
	}
}

// InvalidationHook returns Invalidate bound for use as a preferences-changed
// callback.
func (r *Resolver) InvalidationHook() func() {
	return func() { r.Invalidate() }
}

// MemoStats exposes memo cache statistics for diagnostics.
func (r *Resolver) MemoStats() *cache.Statistics {
	return r.memo.Stats()
}

// LiveMetadataFor returns the live telemetry metadata for a path, if a live
// provider is attached and knows the path.
func (r *Resolver) LiveMetadataFor(path string) (LiveMetadata, bool) {
	if r.live == nil {
		return LiveMetadata{}, false
	}
	return r.live.Metadata(path)
}

func (r *Resolver) countStage(name string) {
	if r.metrics != nil {
		r.metrics.ResolutionsTotal.WithLabelValues(name).Inc()
	}
}
