package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "farm_dashboard"

// Metrics holds the counters shared by the data flows.
type Metrics struct {
	registry *prometheus.Registry

	// CacheLookups is labelled by cache (weather, market) and result (hit, miss).
	CacheLookups *prometheus.CounterVec
	// UpstreamFailures is labelled by flow and error kind (upstream, malformed, other).
	UpstreamFailures *prometheus.CounterVec
	// Fallbacks counts mock payloads served, labelled by flow.
	Fallbacks *prometheus.CounterVec
}

// NewMetrics registers the counters on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache and result.",
		}, []string{"cache", "result"}),
		UpstreamFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_failures_total",
			Help:      "Failed provider fetches by flow and error kind.",
		}, []string{"flow", "kind"}),
		Fallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallbacks_total",
			Help:      "Mock payloads served in place of provider data.",
		}, []string{"flow"}),
	}
	reg.MustRegister(m.CacheLookups, m.UpstreamFailures, m.Fallbacks)
	return m
}

// CacheResult records a hit or miss for the named cache. Safe on a nil receiver.
func (m *Metrics) CacheResult(cache string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookups.WithLabelValues(cache, result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
