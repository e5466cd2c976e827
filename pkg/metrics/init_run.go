package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowcore_runs_total",
			Help: "Analysis runs by outcome",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowcore_run_duration_seconds",
			Help:    "End-to-end duration of one input",
			Buckets: []float64{0.1, 1, 5, 15, 60, 300, 900},
		},
	)

	r.LastRunTimestamp = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowcore_last_run_timestamp_seconds",
			Help: "Unix time of the last finished run",
		},
	)

	r.MemoryAllocBytes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "flowcore_memory_alloc_bytes",
			Help: "Bytes of allocated heap objects after the last run",
		},
	)
}
