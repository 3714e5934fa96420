package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/motamman/signalk-units-preference-sub000/errors"
	"github.com/motamman/signalk-units-preference-sub000/types"
)

// bundleVersion is the backup format version, checked on restore.
const bundleVersion = 1

// Bundle packages every preference document into one exportable JSON object.
type Bundle struct {
	Version     int                `json:"version"`
	ExportedAt  time.Time          `json:"exportedAt"`
	Preferences *types.Preferences `json:"preferences"`
	CustomUnits types.CustomUnits  `json:"customUnits"`
}

// Backup exports the current state as a bundle.
func (s *Store) Backup() *Bundle {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &Bundle{
		Version:     bundleVersion,
		ExportedAt:  time.Now().UTC(),
		Preferences: s.prefs.Clone(),
		CustomUnits: s.custom.Clone(),
	}
}

// Restore replaces all preference state with the bundle's contents. The
// bundle's documents are re-validated through the same schemas as a disk
// load, so a hand-edited bundle cannot smuggle in malformed data.
func (s *Store) Restore(bundle *Bundle) error {
	if bundle == nil {
		return errors.Wrap(fmt.Errorf("nil bundle"), "store", "Restore", "validate bundle")
	}
	if bundle.Version != bundleVersion {
		return errors.Wrap(
			fmt.Errorf("unsupported bundle version %d", bundle.Version),
			"store", "Restore", "validate bundle")
	}

	prefs := bundle.Preferences
	if prefs == nil {
		prefs = types.NewPreferences()
	}
	prefsData, err := json.Marshal(prefs)
	if err != nil {
		return errors.Wrap(err, "store", "Restore", "marshal preferences")
	}
	if err := validateDocument(preferencesValidator, prefsData, preferencesFile); err != nil {
		return err
	}

	custom := bundle.CustomUnits
	if custom == nil {
		custom = make(types.CustomUnits)
	}
	customData, err := json.Marshal(custom)
	if err != nil {
		return errors.Wrap(err, "store", "Restore", "marshal custom units")
	}
	if err := validateDocument(customUnitsValidator, customData, customUnitsFile); err != nil {
		return err
	}

	for base, table := range custom {
		for target, def := range table {
			if err := checkDefinition(target, def); err != nil {
				return errors.Wrap(err, "store", "Restore",
					fmt.Sprintf("custom unit %s->%s", base, target))
			}
		}
	}

	s.mu.Lock()
	s.prefs = prefs.Clone()
	s.custom = custom.Clone()
	persistErr := s.persistLocked("Restore")
	s.mu.Unlock()
	if persistErr != nil {
		return persistErr
	}
	s.notify()
	return nil
}
