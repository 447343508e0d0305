// Package metrics exposes Prometheus collectors for optimization runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/warp/lease-engine/renewal"
)

// Metrics holds the collectors on their own registry so tests and multiple
// servers in one process don't collide on the default one.
type Metrics struct {
	Registry *prometheus.Registry

	runs        prometheus.Counter
	leases      prometheus.Counter
	fallbacks   prometheus.Counter
	displaced   prometheus.Histogram
	runDuration prometheus.Histogram
	peakLoad    prometheus.Gauge
}

var _ renewal.Observer = (*Metrics)(nil)

func New() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lease_engine",
			Name:      "runs_total",
			Help:      "Optimization runs completed.",
		}),
		leases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lease_engine",
			Name:      "leases_total",
			Help:      "Leases assigned a renewal date.",
		}),
		fallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lease_engine",
			Name:      "fallbacks_total",
			Help:      "Leases placed on an overbooked ideal date because the search window was full.",
		}),
		displaced: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lease_engine",
			Name:      "offset_days",
			Help:      "Absolute distance in days between assigned and ideal renewal dates.",
			Buckets:   []float64{0, 1, 3, 7, 14, 30, 90, 180, 364},
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "lease_engine",
			Name:      "run_duration_seconds",
			Help:      "Engine time per run, excluding persistence.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		peakLoad: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "lease_engine",
			Name:      "last_run_peak_load",
			Help:      "Highest per-day renewal count in the most recent run.",
		}),
	}
	m.Registry.MustRegister(m.runs, m.leases, m.fallbacks, m.displaced, m.runDuration, m.peakLoad)
	return m
}

// ObserveRun records one finished run.
func (m *Metrics) ObserveRun(r renewal.Result, maxPerDay int, elapsed time.Duration) {
	m.runs.Inc()
	m.leases.Add(float64(len(r.Assignments)))
	for _, a := range r.Assignments {
		if a.Fallback {
			m.fallbacks.Inc()
		}
		offset := a.Offset
		if offset < 0 {
			offset = -offset
		}
		m.displaced.Observe(float64(offset))
	}
	m.runDuration.Observe(elapsed.Seconds())
	m.peakLoad.Set(float64(renewal.Summarize(r, maxPerDay).PeakLoad))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
