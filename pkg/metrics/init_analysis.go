package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initAnalysisMetrics() {
	r.Degeneracy = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowcore_degeneracy",
			Help: "Largest core number in the contact graph",
		},
		[]string{"input"},
	)

	r.PriorityHostsInCore = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowcore_priority_hosts_in_max_core",
			Help: "Botnet-labelled hosts inside the innermost core",
		},
		[]string{"input"},
	)

	r.DecompositionDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowcore_decomposition_duration_seconds",
			Help:    "Time spent computing core numbers",
			Buckets: []float64{0.001, 0.01, 0.1, 0.5, 1, 5, 30},
		},
	)
}
