package store

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/motamman/signalk-units-preference-sub000/errors"
)

// debounceWindow coalesces bursts of fsnotify events (editors often emit
// several per save) into a single reload.
const debounceWindow = 250 * time.Millisecond

// Watch reloads the store when its files change on disk, until ctx is
// cancelled. The store's own atomic writes also trigger events; reloading
// just-written data is harmless, so no self-write filtering is attempted.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "store", "Watch", "create watcher")
	}
	if err := watcher.Add(s.dir); err != nil {
		watcher.Close()
		return errors.Wrap(err, "store", "Watch", "watch data dir")
	}

	go s.watchLoop(ctx, watcher)
	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !s.relevantEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounceWindow)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounceWindow)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			if err := s.Reload(); err != nil {
				s.logger.Warn("preference reload after file change failed", "error", err)
				continue
			}
			s.logger.Info("preferences reloaded from disk")

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.logger.Warn("preference file watcher error", "error", err)
		}
	}
}

// relevantEvent filters to writes/creates/renames of the two owned documents.
func (s *Store) relevantEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	name := filepath.Base(event.Name)
	return name == preferencesFile || name == customUnitsFile
}
