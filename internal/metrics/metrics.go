// Package metrics holds the prometheus collectors of the directory.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the counters handlers update.
type Metrics struct {
	registry        *prometheus.Registry
	StoreFailures   *prometheus.CounterVec
	EventsPublished *prometheus.CounterVec
}

// New registers the collectors on a fresh registry so tests can build as
// many instances as they like.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		StoreFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_failures_total",
			Help: "Failed writes by error kind, rejected forms included.",
		}, []string{"kind"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Activity events handed to the broker by type and result.",
		}, []string{"type", "result"}),
	}
	reg.MustRegister(
		m.StoreFailures,
		m.EventsPublished,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
