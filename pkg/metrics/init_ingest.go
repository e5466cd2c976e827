package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initIngestMetrics() {
	r.FlowsIngestedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowcore_flows_ingested_total",
			Help: "Flow records turned into graph edges",
		},
		[]string{"input"},
	)

	r.RowsSkippedTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowcore_rows_skipped_total",
			Help: "Input rows skipped because they were short or unparsable",
		},
		[]string{"input"},
	)

	r.IngestDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "flowcore_ingest_duration_seconds",
			Help:    "Time spent reading one input into a graph",
			Buckets: []float64{0.01, 0.1, 0.5, 1, 5, 15, 60, 300},
		},
	)

	r.GraphVertices = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowcore_graph_vertices",
			Help: "Distinct hosts in the contact graph",
		},
		[]string{"input"},
	)

	r.GraphEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "flowcore_graph_edges",
			Help: "Edges in the contact graph, repeated flows included",
		},
		[]string{"input"},
	)
}
