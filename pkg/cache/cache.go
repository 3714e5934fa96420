// Package cache provides generic, thread-safe caches used for path->metadata
// memoization. Two eviction policies are available: none (Simple) and
// least-recently-used (LRU). Statistics are always collected; Prometheus
// export is optional via WithMetrics.
package cache

import (
	"fmt"
	"strings"
)

// Cache is the interface both implementations satisfy, parameterized by
// value type V.
type Cache[V any] interface {
	// Get retrieves a value by key.
	Get(key string) (V, bool)
	// Set stores a value. Returns true if a new entry was created.
	Set(key string, value V) (bool, error)
	// Delete removes an entry. Returns true if the key existed.
	Delete(key string) (bool, error)
	// Clear removes all entries.
	Clear() error
	// Size returns the current entry count.
	Size() int
	// Stats returns the always-on statistics for this cache.
	Stats() *Statistics
}

// validateKey rejects keys that would corrupt lookups or metrics labels.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("cache: key cannot be empty")
	}
	if strings.ContainsAny(key, "\n\r") {
		return fmt.Errorf("cache: key cannot contain newlines")
	}
	return nil
}

// NewSimple creates a cache with no eviction policy.
func NewSimple[V any](opts ...Option[V]) (Cache[V], error) {
	return newSimpleCache(applyOptions(opts))
}

// NewLRU creates a cache that evicts the least recently used entry once
// maxSize is reached.
func NewLRU[V any](maxSize int, opts ...Option[V]) (Cache[V], error) {
	if maxSize <= 0 {
		return nil, fmt.Errorf("cache: LRU maxSize must be positive, got %d", maxSize)
	}
	return newLRUCache(maxSize, applyOptions(opts))
}
