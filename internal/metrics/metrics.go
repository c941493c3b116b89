// Package metrics exposes Prometheus instruments for the dashboard.
//
// Every instrument lives on a private registry owned by Metrics, so
// tests can build as many instances as they like without colliding on
// the global default registry.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dashboard"

// Metrics holds the registry and the instruments recorded by the query
// layer, the HTTP layer and the report worker.
//
// All methods are safe on a nil *Metrics and then do nothing.
type Metrics struct {
	registry *prometheus.Registry

	queryDuration *prometheus.HistogramVec
	queryFailures *prometheus.CounterVec

	requestsTotal  *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec

	reportsTotal *prometheus.CounterVec
}

// New creates the instruments and registers them, together with the Go
// runtime and process collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Duration of dashboard read operations.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
		queryFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_failures_total",
				Help:      "Dashboard read operations that failed, by SQL error class.",
			},
			[]string{"operation", "error_code"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests.",
			},
			[]string{"route", "method", "status"},
		),
		requestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		reportsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "invoice_reports_total",
				Help:      "Invoice report jobs processed, by outcome.",
			},
			[]string{"outcome"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.queryDuration,
		m.queryFailures,
		m.requestsTotal,
		m.requestLatency,
		m.reportsTotal,
	)

	return m
}

// ObserveQuery records one dashboard read operation. errorCode is empty
// on success.
func (m *Metrics) ObserveQuery(operation string, d time.Duration, errorCode string) {
	if m == nil {
		return
	}

	outcome := "success"
	if errorCode != "" {
		outcome = "error"
		m.queryFailures.WithLabelValues(operation, errorCode).Inc()
	}
	m.queryDuration.WithLabelValues(operation, outcome).Observe(d.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(route, method, status).Inc()
	m.requestLatency.WithLabelValues(route, method).Observe(d.Seconds())
}

// ObserveReport records the outcome ("sent" or "failed") of a report job.
func (m *Metrics) ObserveReport(outcome string) {
	if m == nil {
		return
	}
	m.reportsTotal.WithLabelValues(outcome).Inc()
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
