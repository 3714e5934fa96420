package cache

import "github.com/motamman/signalk-units-preference-sub000/metric"

// Option configures cache behavior using the functional options pattern.
type Option[V any] func(*cacheOptions[V])

// cacheOptions holds internal configuration. Stats are always collected;
// metrics export is opt-in.
type cacheOptions[V any] struct {
	metricsReg  *metric.Registry
	metricsName string
}

func applyOptions[V any](opts []Option[V]) *cacheOptions[V] {
	o := &cacheOptions[V]{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithMetrics exports cache hits, misses, and size to the given metrics
// registry under the cache name. A nil registry or empty name disables
// export.
func WithMetrics[V any](reg *metric.Registry, name string) Option[V] {
	return func(o *cacheOptions[V]) {
		if reg != nil && name != "" {
			o.metricsReg = reg
			o.metricsName = name
		}
	}
}

// observer bridges cache events to the optional Prometheus export.
type observer struct {
	reg  *metric.Registry
	name string
}

func newObserver[V any](o *cacheOptions[V]) *observer {
	if o.metricsReg == nil {
		return nil
	}
	return &observer{reg: o.metricsReg, name: o.metricsName}
}

func (o *observer) hit() {
	if o != nil {
		o.reg.CacheHits.WithLabelValues(o.name).Inc()
	}
}

func (o *observer) miss() {
	if o != nil {
		o.reg.CacheMisses.WithLabelValues(o.name).Inc()
	}
}

func (o *observer) size(n int) {
	if o != nil {
		o.reg.CacheSize.WithLabelValues(o.name).Set(float64(n))
	}
}
