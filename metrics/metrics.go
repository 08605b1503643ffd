// Package metrics exposes analysis counters for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "combatlog_check"

type Metrics struct {
	registry *prometheus.Registry

	analyses        *prometheus.CounterVec
	analysisLatency prometheus.Histogram
	dispatched      prometheus.Counter
	highlights      prometheus.Counter
	requests        *prometheus.CounterVec
	queueWaiting    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Finished analyses by status.",
		}, []string{"status"}),
		analysisLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing one request.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}),
		dispatched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dispatched_total",
			Help:      "Handler calls made while replaying fights.",
		}),
		highlights: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "highlights_total",
			Help:      "Inefficient casts highlighted.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "log_api_requests_total",
			Help:      "Requests made to the log service by status.",
		}, []string{"status"}),
		queueWaiting: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_waiting",
			Help:      "Analyses waiting for the queue worker.",
		}),
	}

	m.registry.MustRegister(
		m.analyses,
		m.analysisLatency,
		m.dispatched,
		m.highlights,
		m.requests,
		m.queueWaiting,
		collectors.NewGoCollector(),
	)

	return m
}

func (m *Metrics) AnalysisDone(status string, took time.Duration, dispatched, highlights int) {
	m.analyses.WithLabelValues(status).Inc()
	m.analysisLatency.Observe(took.Seconds())
	m.dispatched.Add(float64(dispatched))
	m.highlights.Add(float64(highlights))
}

func (m *Metrics) Request(status string) {
	m.requests.WithLabelValues(status).Inc()
}

func (m *Metrics) SetWaiting(n int) {
	m.queueWaiting.Set(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
