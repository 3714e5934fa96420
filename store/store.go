package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/motamman/signalk-units-preference-sub000/errors"
	"github.com/motamman/signalk-units-preference-sub000/formula"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

const (
	preferencesFile = "preferences.json"
	customUnitsFile = "custom-units.json"
)

// Store owns the preference and custom-unit documents on disk. It implements
// the resolver's PreferenceProvider; readers always receive copies, never the
// internal documents.
type Store struct {
	dir    string
	logger *slog.Logger

	mu     sync.RWMutex
	prefs  *types.Preferences
	custom types.CustomUnits

	hookMu   sync.Mutex
	onChange []func()
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// New opens (or initializes) the preference store in dir. Missing files start
// as empty documents; existing files must pass schema validation.
func New(dir string, opts ...Option) (*Store, error) {
	if dir == "" {
		return nil, errors.Wrap(fmt.Errorf("empty directory"), "store", "New", "resolve data dir")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "store", "New", "create data dir")
	}

	s := &Store{
		dir:    dir,
		logger: slog.Default(),
		prefs:  types.NewPreferences(),
		custom: make(types.CustomUnits),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// OnChange registers a hook fired after every successful mutation or reload.
// The resolver's invalidation hook is registered here so the memo is cleared
// synchronously before any later Resolve can observe stale data.
func (s *Store) OnChange(fn func()) {
	if fn == nil {
		return
	}
	s.hookMu.Lock()
	s.onChange = append(s.onChange, fn)
	s.hookMu.Unlock()
}

// Preferences returns a deep copy of the current preference document.
func (s *Store) Preferences() *types.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs.Clone()
}

// CustomConversions returns a copy of the custom conversion table for a base
// unit, or nil when none is defined.
func (s *Store) CustomConversions(baseUnit string) map[string]types.ConversionDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()
	table, ok := s.custom[baseUnit]
	if !ok {
		return nil
	}
	out := make(map[string]types.ConversionDefinition, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}

// CustomUnits returns a deep copy of all custom conversion tables.
func (s *Store) CustomUnits() types.CustomUnits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.custom.Clone()
}

// SetCategoryPreference stores the target unit/format choice for a category.
func (s *Store) SetCategoryPreference(category string, pref types.CategoryPreference) error {
	if category == "" {
		return errors.Wrap(fmt.Errorf("empty category"), "store", "SetCategoryPreference", "validate")
	}
	return s.mutate("SetCategoryPreference", func() {
		s.prefs.Categories[category] = pref
	})
}

// DeleteCategoryPreference removes a category preference.
func (s *Store) DeleteCategoryPreference(category string) error {
	return s.mutate("DeleteCategoryPreference", func() {
		delete(s.prefs.Categories, category)
	})
}

// SetPathOverride stores an exact-path preference, the highest-precedence
// resolution stage after explicit metadata.
func (s *Store) SetPathOverride(path string, pref types.CategoryPreference) error {
	if path == "" {
		return errors.Wrap(fmt.Errorf("empty path"), "store", "SetPathOverride", "validate")
	}
	return s.mutate("SetPathOverride", func() {
		s.prefs.PathOverrides[path] = pref
	})
}

// DeletePathOverride removes an exact-path preference.
func (s *Store) DeletePathOverride(path string) error {
	return s.mutate("DeletePathOverride", func() {
		delete(s.prefs.PathOverrides, path)
	})
}

// UpsertPatternRule adds a wildcard rule, or replaces the existing rule with
// the same pattern. Relative order of untouched rules is preserved so
// priority ties stay stable.
func (s *Store) UpsertPatternRule(rule types.PathPatternRule) error {
	if err := rule.Validate(); err != nil {
		return errors.Wrap(err, "store", "UpsertPatternRule", "validate rule")
	}
	return s.mutate("UpsertPatternRule", func() {
		for i, existing := range s.prefs.PathPatterns {
			if existing.Pattern == rule.Pattern {
				s.prefs.PathPatterns[i] = rule
				return
			}
		}
		s.prefs.PathPatterns = append(s.prefs.PathPatterns, rule)
	})
}

// DeletePatternRule removes the rule with the given pattern.
func (s *Store) DeletePatternRule(pattern string) error {
	return s.mutate("DeletePatternRule", func() {
		rules := s.prefs.PathPatterns[:0]
		for _, r := range s.prefs.PathPatterns {
			if r.Pattern != pattern {
				rules = append(rules, r)
			}
		}
		s.prefs.PathPatterns = rules
	})
}

// SetPathMetadata stores explicit unit metadata for a path (resolution
// stage 1).
func (s *Store) SetPathMetadata(path string, meta types.UnitMetadata) error {
	if path == "" {
		return errors.Wrap(fmt.Errorf("empty path"), "store", "SetPathMetadata", "validate")
	}
	if err := meta.Validate(); err != nil {
		return errors.Wrap(err, "store", "SetPathMetadata", "validate metadata")
	}
	for target, def := range meta.Conversions {
		if err := checkDefinition(target, def); err != nil {
			return errors.Wrap(err, "store", "SetPathMetadata", "validate conversion")
		}
	}
	return s.mutate("SetPathMetadata", func() {
		s.prefs.PathMetadata[path] = *meta.Clone()
	})
}

// DeletePathMetadata removes explicit metadata for a path.
func (s *Store) DeletePathMetadata(path string) error {
	return s.mutate("DeletePathMetadata", func() {
		delete(s.prefs.PathMetadata, path)
	})
}

// SetCustomConversion stores a user-defined conversion for baseUnit->target.
// The formula is sandbox-checked here so an unsafe or unparseable formula is
// rejected before it can reach the streaming path.
func (s *Store) SetCustomConversion(baseUnit, target string, def types.ConversionDefinition) error {
	if baseUnit == "" || target == "" {
		return errors.Wrap(fmt.Errorf("empty base or target unit"), "store", "SetCustomConversion", "validate")
	}
	if err := checkDefinition(target, def); err != nil {
		return errors.Wrap(err, "store", "SetCustomConversion", "validate definition")
	}
	return s.mutate("SetCustomConversion", func() {
		if s.custom[baseUnit] == nil {
			s.custom[baseUnit] = make(map[string]types.ConversionDefinition)
		}
		s.custom[baseUnit][target] = def
	})
}

// DeleteCustomConversion removes one custom conversion; an emptied base-unit
// table is dropped entirely.
func (s *Store) DeleteCustomConversion(baseUnit, target string) error {
	return s.mutate("DeleteCustomConversion", func() {
		table, ok := s.custom[baseUnit]
		if !ok {
			return
		}
		delete(table, target)
		if len(table) == 0 {
			delete(s.custom, baseUnit)
		}
	})
}

// CustomBaseUnits lists base units with custom tables, sorted.
func (s *Store) CustomBaseUnits() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.custom))
	for base := range s.custom {
		out = append(out, base)
	}
	sort.Strings(out)
	return out
}

// checkDefinition validates one conversion definition: either a date format
// or a sandbox-clean formula.
func checkDefinition(target string, def types.ConversionDefinition) error {
	if def.IsDate() {
		return nil
	}
	if !def.HasFormula() {
		return fmt.Errorf("target %q: definition needs a formula or a date format", target)
	}
	if err := formula.CheckSyntax(def.Formula); err != nil {
		return fmt.Errorf("target %q: %w", target, err)
	}
	if def.InverseFormula != "" {
		if err := formula.CheckSyntax(def.InverseFormula); err != nil {
			return fmt.Errorf("target %q inverse: %w", target, err)
		}
	}
	return nil
}

// mutate runs one mutation under the write lock, persists both documents, and
// fires the change hooks. The hooks run outside the lock; they may read the
// store again.
func (s *Store) mutate(method string, fn func()) error {
	s.mu.Lock()
	fn()
	err := s.persistLocked(method)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// persistLocked writes both documents atomically. Caller holds the write lock.
func (s *Store) persistLocked(method string) error {
	prefsData, err := json.MarshalIndent(s.prefs, "", "  ")
	if err != nil {
		return errors.Wrap(err, "store", method, "marshal preferences")
	}
	customData, err := json.MarshalIndent(s.custom, "", "  ")
	if err != nil {
		return errors.Wrap(err, "store", method, "marshal custom units")
	}

	if err := writeAtomic(filepath.Join(s.dir, preferencesFile), prefsData); err != nil {
		return errors.Wrap(err, "store", method, "write preferences")
	}
	if err := writeAtomic(filepath.Join(s.dir, customUnitsFile), customData); err != nil {
		return errors.Wrap(err, "store", method, "write custom units")
	}
	return nil
}

// writeAtomic writes data to path via a temp file and rename, so a crashed
// write never leaves a truncated document behind.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// load reads and validates both documents. Missing files leave the in-memory
// empty documents in place.
func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	prefsPath := filepath.Join(s.dir, preferencesFile)
	if data, err := os.ReadFile(prefsPath); err == nil {
		if err := validateDocument(preferencesValidator, data, preferencesFile); err != nil {
			return err
		}
		prefs := types.NewPreferences()
		if err := json.Unmarshal(data, prefs); err != nil {
			return errors.Wrap(err, "store", "load", "unmarshal preferences")
		}
		ensurePreferenceMaps(prefs)
		s.prefs = prefs
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "store", "load", "read preferences")
	}

	customPath := filepath.Join(s.dir, customUnitsFile)
	if data, err := os.ReadFile(customPath); err == nil {
		if err := validateDocument(customUnitsValidator, data, customUnitsFile); err != nil {
			return err
		}
		custom := make(types.CustomUnits)
		if err := json.Unmarshal(data, &custom); err != nil {
			return errors.Wrap(err, "store", "load", "unmarshal custom units")
		}
		s.custom = custom
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, "store", "load", "read custom units")
	}

	return nil
}

// Reload re-reads both documents from disk and fires the change hooks. Used
// by the file watcher and after a restore.
func (s *Store) Reload() error {
	if err := s.load(); err != nil {
		return err
	}
	s.notify()
	return nil
}

func (s *Store) notify() {
	s.hookMu.Lock()
	hooks := append([]func(){}, s.onChange...)
	s.hookMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// ensurePreferenceMaps restores nil maps after JSON decoding of a sparse
// document.
func ensurePreferenceMaps(p *types.Preferences) {
	if p.Categories == nil {
		p.Categories = make(map[string]types.CategoryPreference)
	}
	if p.PathOverrides == nil {
		p.PathOverrides = make(map[string]types.CategoryPreference)
	}
	if p.PathMetadata == nil {
		p.PathMetadata = make(map[string]types.UnitMetadata)
	}
}
