// Package metrics exposes Prometheus metrics for the serve mode. Batch
// commands never touch this package.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once     sync.Once
	registry *Registry
)

// Registry holds all compile-service metrics.
type Registry struct {
	reg *prometheus.Registry

	// Compile metrics
	CompilesTotal   *prometheus.CounterVec
	CompileDuration prometheus.Histogram
	RulesEmitted    prometheus.Histogram

	// HTTP metrics
	Requests *prometheus.CounterVec
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Registry{
		reg: reg,
		CompilesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wafplan",
			Name:      "compiles_total",
			Help:      "Policy compilations by result",
		}, []string{"result"}),
		CompileDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wafplan",
			Name:      "compile_duration_seconds",
			Help:      "Wall time of one policy compilation",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		RulesEmitted: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "wafplan",
			Name:      "rules_emitted",
			Help:      "Rules per successfully compiled policy",
			Buckets:   prometheus.LinearBuckets(0, 5, 10),
		}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "wafplan",
			Name:      "http_requests_total",
			Help:      "HTTP requests by path and status code",
		}, []string{"path", "code"}),
	}
}

// Handler returns the scrape endpoint for this registry.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
