package cache

import (
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motamman/signalk-units-preference-sub000/metric"
)

func TestSimpleCacheBasics(t *testing.T) {
	c, err := NewSimple[string]()
	require.NoError(t, err)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	created, err := c.Set("a", "1")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = c.Set("a", "2")
	require.NoError(t, err)
	assert.False(t, created, "overwrite is not a new entry")

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "2", v)
	assert.Equal(t, 1, c.Size())

	deleted, err := c.Delete("a")
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Equal(t, 0, c.Size())
}

func TestSimpleCacheClear(t *testing.T) {
	c, err := NewSimple[int]()
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := c.Set(fmt.Sprintf("k%d", i), i)
		require.NoError(t, err)
	}
	require.Equal(t, 10, c.Size())

	require.NoError(t, c.Clear())
	assert.Equal(t, 0, c.Size())
	_, ok := c.Get("k3")
	assert.False(t, ok)
}

func TestCacheRejectsEmptyKey(t *testing.T) {
	c, err := NewSimple[int]()
	require.NoError(t, err)

	_, err = c.Set("", 1)
	assert.Error(t, err)
	_, err = c.Delete("")
	assert.Error(t, err)
}

func TestCacheStats(t *testing.T) {
	c, err := NewSimple[int]()
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	c.Get("a")
	c.Get("a")
	c.Get("nope")

	stats := c.Stats()
	assert.Equal(t, int64(2), stats.Hits())
	assert.Equal(t, int64(1), stats.Misses())
	assert.Equal(t, int64(1), stats.Sets())
	assert.InDelta(t, 2.0/3.0, stats.HitRate(), 1e-9)
}

func TestLRUEviction(t *testing.T) {
	c, err := NewLRU[int](2)
	require.NoError(t, err)

	_, _ = c.Set("a", 1)
	_, _ = c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	_, _ = c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 2, c.Size())
}

func TestLRURequiresPositiveSize(t *testing.T) {
	_, err := NewLRU[int](0)
	assert.Error(t, err)
}

func TestCacheMetricsExport(t *testing.T) {
	reg := metric.NewRegistry()
	c, err := NewSimple[int](WithMetrics[int](reg, "resolver_memo"))
	require.NoError(t, err)

	_, _ = c.Set("navigation.speedOverGround", 1)
	c.Get("navigation.speedOverGround")
	c.Get("unknown.path")

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheHits.WithLabelValues("resolver_memo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheMisses.WithLabelValues("resolver_memo")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheSize.WithLabelValues("resolver_memo")))
}

func BenchmarkSimpleCacheGet(b *testing.B) {
	c, _ := NewSimple[int]()
	_, _ = c.Set("navigation.speedOverGround", 1)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Get("navigation.speedOverGround")
	}
}
