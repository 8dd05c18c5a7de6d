// Package metrics exposes matcher counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "tendermatch"

// Metrics holds the collectors for one process. Each instance owns its own
// registry so tests can create as many as they like.
type Metrics struct {
	Registry *prometheus.Registry

	Results        *prometheus.CounterVec
	Chapters       *prometheus.CounterVec
	Jobs           *prometheus.CounterVec
	MatchDuration  prometheus.Histogram
	QueueDepth     prometheus.Gauge
	CatalogReloads prometheus.Counter
}

// New creates and registers all collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		Results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "match_results_total",
			Help:      "Target match results by target key and status.",
		}, []string{"target", "status"}),
		Chapters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chapter_matches_total",
			Help:      "Chapter lookups by method (heading, window, none).",
		}, []string{"method"}),
		Jobs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_total",
			Help:      "Finished match jobs by final status.",
		}, []string{"status"}),
		MatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "match_duration_seconds",
			Help:      "Time spent locating targets in one document.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 12),
		}),
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "queue_depth",
			Help:      "Jobs waiting for a worker.",
		}),
		CatalogReloads: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_reloads_total",
			Help:      "Successful catalog reloads.",
		}),
	}
	reg.MustRegister(
		m.Results,
		m.Chapters,
		m.Jobs,
		m.MatchDuration,
		m.QueueDepth,
		m.CatalogReloads,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveResult counts one target outcome.
func (m *Metrics) ObserveResult(target, status string) {
	if m == nil {
		return
	}
	m.Results.WithLabelValues(target, status).Inc()
}

// ObserveChapter counts one chapter lookup. An empty method means the
// chapter was not found.
func (m *Metrics) ObserveChapter(method string) {
	if m == nil {
		return
	}
	if method == "" {
		method = "none"
	}
	m.Chapters.WithLabelValues(method).Inc()
}

// ObserveJob counts a finished job and its matching time.
func (m *Metrics) ObserveJob(status string, seconds float64) {
	if m == nil {
		return
	}
	m.Jobs.WithLabelValues(status).Inc()
	if seconds >= 0 {
		m.MatchDuration.Observe(seconds)
	}
}

// SetQueueDepth records the current queue length.
func (m *Metrics) SetQueueDepth(n int) {
	if m == nil {
		return
	}
	m.QueueDepth.Set(float64(n))
}

// CatalogReloaded counts a successful catalog reload.
func (m *Metrics) CatalogReloaded() {
	if m == nil {
		return
	}
	m.CatalogReloads.Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}
