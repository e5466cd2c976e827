package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Ingest Metrics
	FlowsIngestedTotal *prometheus.CounterVec
	RowsSkippedTotal   *prometheus.CounterVec
	IngestDuration     prometheus.Histogram

	// Graph Metrics
	GraphVertices *prometheus.GaugeVec
	GraphEdges    *prometheus.GaugeVec

	// Decomposition Metrics
	Degeneracy            *prometheus.GaugeVec
	PriorityHostsInCore   *prometheus.GaugeVec
	DecompositionDuration prometheus.Histogram

	// Export Metrics
	ExportFilesTotal  *prometheus.CounterVec
	ExportBytesTotal  *prometheus.CounterVec
	ExportErrorsTotal *prometheus.CounterVec

	// Run Metrics
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.Mutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initIngestMetrics()
	r.initAnalysisMetrics()
	r.initExportMetrics()
	r.initRunMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
