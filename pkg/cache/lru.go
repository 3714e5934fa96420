package cache

import (
	"container/list"
	"sync"
)

// lruCache evicts the least recently used entry when maxSize is reached.
// Recency is updated on both Get and Set.
type lruCache[V any] struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	order   *list.List // front = most recently used
	stats   *Statistics
	obs     *observer
}

type lruEntry[V any] struct {
	key   string
	value V
}

func newLRUCache[V any](maxSize int, opts *cacheOptions[V]) (*lruCache[V], error) {
	return &lruCache[V]{
		maxSize: maxSize,
		items:   make(map[string]*list.Element, maxSize),
		order:   list.New(),
		stats:   NewStatistics(),
		obs:     newObserver(opts),
	}, nil
}

func (c *lruCache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	elem, exists := c.items[key]
	if exists {
		c.order.MoveToFront(elem)
	}
	c.mu.Unlock()

	if !exists {
		c.stats.Miss()
		c.obs.miss()
		var zero V
		return zero, false
	}
	c.stats.Hit()
	c.obs.hit()
	return elem.Value.(*lruEntry[V]).value, true
}

func (c *lruCache[V]) Set(key string, value V) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	if elem, exists := c.items[key]; exists {
		elem.Value.(*lruEntry[V]).value = value
		c.order.MoveToFront(elem)
		size := len(c.items)
		c.mu.Unlock()

		c.stats.Set()
		c.obs.size(size)
		return false, nil
	}

	if len(c.items) >= c.maxSize {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*lruEntry[V]).key)
		}
	}
	c.items[key] = c.order.PushFront(&lruEntry[V]{key: key, value: value})
	size := len(c.items)
	c.mu.Unlock()

	c.stats.Set()
	c.stats.UpdateSize(int64(size))
	c.obs.size(size)
	return true, nil
}

func (c *lruCache[V]) Delete(key string) (bool, error) {
	if err := validateKey(key); err != nil {
		return false, err
	}

	c.mu.Lock()
	elem, exists := c.items[key]
	if exists {
		c.order.Remove(elem)
		delete(c.items, key)
	}
	size := len(c.items)
	c.mu.Unlock()

	if exists {
		c.stats.Delete()
		c.stats.UpdateSize(int64(size))
		c.obs.size(size)
	}
	return exists, nil
}

func (c *lruCache[V]) Clear() error {
	c.mu.Lock()
	c.items = make(map[string]*list.Element, c.maxSize)
	c.order.Init()
	c.mu.Unlock()

	c.stats.UpdateSize(0)
	c.obs.size(0)
	return nil
}

func (c *lruCache[V]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *lruCache[V]) Stats() *Statistics {
	return c.stats
}
