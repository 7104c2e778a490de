// Package metrics exposes loader and cache instrumentation in the
// Prometheus format. A nil *Metrics records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pnad"

// Metrics holds the collectors of one process.
type Metrics struct {
	registry *prometheus.Registry

	cacheRequests   *prometheus.CounterVec
	rawReads        *prometheus.CounterVec
	rawReadDuration *prometheus.HistogramVec
	loads           *prometheus.CounterVec
	loadDuration    *prometheus.HistogramVec
	columnsComputed *prometheus.CounterVec
}

// New creates and registers the collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cacheRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Column cache lookups by layer and result.",
		}, []string{"layer", "result"}),
		rawReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "raw_reads_total",
			Help:      "Raw microdata file reads.",
		}, []string{"kind", "status"}),
		rawReadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "raw_read_duration_seconds",
			Help:      "Time spent decoding raw microdata files.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 4, 8),
		}, []string{"kind"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "loads_total",
			Help:      "Table loads by kind and status.",
		}, []string{"kind", "status"}),
		loadDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "load_duration_seconds",
			Help:      "End-to-end table load latency.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"kind"}),
		columnsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "columns_computed_total",
			Help:      "Fields evaluated from raw data.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cacheRequests, m.rawReads, m.rawReadDuration,
		m.loads, m.loadDuration, m.columnsComputed,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordCache(layer string, hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cacheRequests.WithLabelValues(layer, result).Inc()
}

func (m *Metrics) RecordRawRead(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.rawReads.WithLabelValues(kind, status(err)).Inc()
	if err == nil {
		m.rawReadDuration.WithLabelValues(kind).Observe(d.Seconds())
	}
}

func (m *Metrics) RecordLoad(kind string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.loads.WithLabelValues(kind, status(err)).Inc()
	m.loadDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) RecordComputed(kind string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.columnsComputed.WithLabelValues(kind).Add(float64(n))
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
