// Package metric manages Prometheus metrics for the units-preference engine:
// conversion and resolution counters, cache statistics, and gateway gauges,
// all registered on one private registry exposed through Handler.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion outcome label values.
const (
	OutcomeConverted   = "converted"
	OutcomePassThrough = "pass_through"
	OutcomeError       = "error"
)

// Registry owns the Prometheus registry and every engine metric.
type Registry struct {
	registry *prometheus.Registry

	// ConversionsTotal counts conversions by entry point and outcome.
	ConversionsTotal *prometheus.CounterVec
	// ResolutionsTotal counts metadata resolutions by winning stage
	// ("memo", "override", "pattern", "live", "heuristic", "none").
	ResolutionsTotal *prometheus.CounterVec
	// CacheHits and CacheMisses count lookups per named cache.
	CacheHits   *prometheus.CounterVec
	CacheMisses *prometheus.CounterVec
	// CacheSize tracks the entry count per named cache.
	CacheSize *prometheus.GaugeVec
	// WSSubscribers is the number of connected WebSocket subscribers.
	WSSubscribers prometheus.Gauge
	// DeltasStreamed counts delta values pushed through the streaming path.
	DeltasStreamed prometheus.Counter
	// HTTPDuration observes request handling time per route.
	HTTPDuration *prometheus.HistogramVec
}

// NewRegistry creates a Registry with all engine metrics registered,
// alongside the standard Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.ConversionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unitspref",
			Subsystem: "conversions",
			Name:      "total",
			Help:      "Conversions performed, by entry point and outcome",
		},
		[]string{"entrypoint", "outcome"},
	)

	r.ResolutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unitspref",
			Subsystem: "resolver",
			Name:      "resolutions_total",
			Help:      "Metadata resolutions, by winning stage",
		},
		[]string{"stage"},
	)

	r.CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unitspref",
			Subsystem: "cache",
			Name:      "hits_total",
			Help:      "Cache hits per cache",
		},
		[]string{"cache"},
	)

	r.CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "unitspref",
			Subsystem: "cache",
			Name:      "misses_total",
			Help:      "Cache misses per cache",
		},
		[]string{"cache"},
	)

	r.CacheSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "unitspref",
			Subsystem: "cache",
			Name:      "entries",
			Help:      "Current cache entry count per cache",
		},
		[]string{"cache"},
	)

	r.WSSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "unitspref",
			Subsystem: "ws",
			Name:      "subscribers",
			Help:      "Connected WebSocket subscribers",
		},
	)

	r.DeltasStreamed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "unitspref",
			Subsystem: "stream",
			Name:      "deltas_total",
			Help:      "Delta values pushed through the streaming conversion path",
		},
	)

	r.HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "unitspref",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request handling duration per route",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	r.registry.MustRegister(
		r.ConversionsTotal,
		r.ResolutionsTotal,
		r.CacheHits,
		r.CacheMisses,
		r.CacheSize,
		r.WSSubscribers,
		r.DeltasStreamed,
		r.HTTPDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// PrometheusRegistry returns the underlying registry for callers that need
// to register their own collectors.
func (r *Registry) PrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler returns the /metrics HTTP handler for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
