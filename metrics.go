package heightmap

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Stages at which rendering a file can fail.
const (
	stageRead   = "read"
	stageRender = "render"
	stageWrite  = "write"
)

var (
	rendersTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heightmap_renders_total",
		Help: "The total number of height maps rendered and written",
	})
	renderFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "heightmap_render_failures_total",
		Help: "The total number of failed renders by stage",
	}, []string{"stage"})
	cellsRenderedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "heightmap_cells_rendered_total",
		Help: "The total number of grid cells rendered",
	})
	renderDurationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "heightmap_render_duration_seconds",
		Help:    "The time taken to read, render, and write a height map",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})
)

// WriteMetrics writes all registered metrics to filename in the Prometheus
// text format, for collection by the node exporter's textfile collector.
func WriteMetrics(filename string) error {
	return prometheus.WriteToTextfile(filename, prometheus.DefaultGatherer)
}
