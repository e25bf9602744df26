// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vesselflow/ppe-engine/ppe"
)

const namespace = "vesselflow"

// Metrics holds the process collectors on their own registry, so tests can
// create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	RecordsAppended  prometheus.Counter
	IssuedQuantity   *prometheus.CounterVec
	AdvisoryRequests *prometheus.CounterVec
	EventFailures    prometheus.Counter
}

// New registers all collectors plus the Go and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		RecordsAppended: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_appended_total",
			Help:      "Issuance records appended to the store.",
		}),
		IssuedQuantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "issued_quantity_total",
			Help:      "PPE units issued, by category.",
		}, []string{"category"}),
		AdvisoryRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "advisory_requests_total",
			Help:      "Advisory calls by kind and outcome.",
		}, []string{"kind", "outcome"}),
		EventFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_failures_total",
			Help:      "Issuance events that could not be published.",
		}),
	}
	reg.MustRegister(
		m.RecordsAppended,
		m.IssuedQuantity,
		m.AdvisoryRequests,
		m.EventFailures,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveAppend counts a stored record.
func (m *Metrics) ObserveAppend(r ppe.Record) {
	m.RecordsAppended.Inc()
	m.IssuedQuantity.WithLabelValues(string(r.Category)).Add(float64(r.Quantity))
}

// ObserveAdvisory matches advisory.Observer.
func (m *Metrics) ObserveAdvisory(kind, outcome string) {
	m.AdvisoryRequests.WithLabelValues(kind, outcome).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
