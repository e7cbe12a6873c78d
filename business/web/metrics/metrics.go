// Package metrics constructs the metrics the application will track.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the set of request metrics and the registry they are
// exposed through.
type Metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	errors     *prometheus.CounterVec
	panics     prometheus.Counter
}

// New constructs the metrics with its own registry so tests and multiple
// nodes in the same process don't collide on the global registry.
func New() *Metrics {
	m := Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Number of requests handled by method and route.",
		}, []string{"method", "route"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Number of requests that failed by method and route.",
		}, []string{"method", "route"}),
		panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "http",
			Name:      "panics_total",
			Help:      "Number of requests that panicked.",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.errors,
		m.panics,
		collectors.NewGoCollector(),
	)

	return &m
}

// Register adds more collectors to the registry.
func (m *Metrics) Register(cs ...prometheus.Collector) error {
	for _, c := range cs {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// Handler returns the http handler that serves the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// AddRequest increments the request count for the route.
func (m *Metrics) AddRequest(method string, route string) {
	m.requests.WithLabelValues(method, route).Inc()
}

// AddError increments the error count for the route.
func (m *Metrics) AddError(method string, route string) {
	m.errors.WithLabelValues(method, route).Inc()
}

// AddPanic increments the panic count.
func (m *Metrics) AddPanic() {
	m.panics.Inc()
}
