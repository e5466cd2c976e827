package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initExportMetrics() {
	r.ExportFilesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowcore_export_files_total",
			Help: "Result files written or uploaded",
		},
		[]string{"sink"},
	)

	r.ExportBytesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowcore_export_bytes_total",
			Help: "Bytes written to result sinks",
		},
		[]string{"sink"},
	)

	r.ExportErrorsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "flowcore_export_errors_total",
			Help: "Failed export operations",
		},
		[]string{"sink"},
	)
}
