// Package store persists the preference document and custom unit definitions
// as JSON files on disk.
//
// Two documents are owned here: preferences.json (category preferences, path
// overrides, pattern rules, explicit path metadata) and custom-units.json
// (user-defined conversion tables keyed by base unit). Writes are atomic
// (temp file + rename) and every document is validated against a JSON schema
// before it is accepted, both on load and on restore.
//
// The store is the single mutation point for preference data. Every mutator
// persists synchronously and then fires the registered change hooks, which the
// resolver uses to invalidate its path->metadata memo; a stale memo entry
// would otherwise serve an outdated conversion indefinitely. An optional
// fsnotify watcher picks up out-of-band file edits and reloads through the
// same hook path.
package store
