package metrics

import (
	"fmt"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RecordIngest records the outcome of reading one input
func (r *Registry) RecordIngest(input string, flows, skipped int, duration time.Duration) {
	r.FlowsIngestedTotal.WithLabelValues(input).Add(float64(flows))
	r.RowsSkippedTotal.WithLabelValues(input).Add(float64(skipped))
	r.IngestDuration.Observe(duration.Seconds())
}

// RecordGraph records the size of a finalized graph
func (r *Registry) RecordGraph(input string, vertices, edges int) {
	r.GraphVertices.WithLabelValues(input).Set(float64(vertices))
	r.GraphEdges.WithLabelValues(input).Set(float64(edges))
}

// RecordDecomposition records a finished core decomposition
func (r *Registry) RecordDecomposition(input string, degeneracy, priorityInMaxCore int, duration time.Duration) {
	r.Degeneracy.WithLabelValues(input).Set(float64(degeneracy))
	r.PriorityHostsInCore.WithLabelValues(input).Set(float64(priorityInMaxCore))
	r.DecompositionDuration.Observe(duration.Seconds())
}

// RecordExport records one file written to a sink ("file", "s3", "postgres")
func (r *Registry) RecordExport(sink string, bytes int64, err error) {
	if err != nil {
		r.ExportErrorsTotal.WithLabelValues(sink).Inc()
		return
	}
	r.ExportFilesTotal.WithLabelValues(sink).Inc()
	r.ExportBytesTotal.WithLabelValues(sink).Add(float64(bytes))
}

// RecordRun records the end of one input's run
func (r *Registry) RecordRun(status string, duration time.Duration) {
	r.RunsTotal.WithLabelValues(status).Inc()
	r.RunDuration.Observe(duration.Seconds())
	r.LastRunTimestamp.SetToCurrentTime()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	r.MemoryAllocBytes.Set(float64(m.Alloc))
}

// WriteTextfile writes every metric in the text exposition format, for the
// node_exporter textfile collector. The file is replaced atomically.
func (r *Registry) WriteTextfile(path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
