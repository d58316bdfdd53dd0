package cli

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mkordik/nodewire/pkg/observability"
)

var (
	framesPlayed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nodewire_frames_played_total",
		Help: "Total number of editor frames played, labelled by graph.",
	}, []string{"graph"})

	frameDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nodewire_frame_duration_ms",
		Help:    "Frame wall time in milliseconds.",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100},
	})

	graphNodes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nodewire_graph_nodes",
		Help: "Node count of the most recently played frame, labelled by graph.",
	}, []string{"graph"})

	connectionsMade = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nodewire_connections_made_total",
		Help: "Total number of pin connections made, labelled by graph.",
	}, []string{"graph"})

	connectionsBroken = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nodewire_connections_broken_total",
		Help: "Total number of pin connections broken, labelled by graph.",
	}, []string{"graph"})

	selectionSize = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "nodewire_selection_size",
		Help: "Size of the current node selection, labelled by graph.",
	}, []string{"graph"})

	exportsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "nodewire_exports_total",
		Help: "Total number of graph exports, labelled by format and status.",
	}, []string{"format", "status"})

	exportDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nodewire_export_duration_ms",
		Help:    "Export render latency in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
	})
)

// metricsHooks feeds editor events into the prometheus registry.
// It implements all three hook interfaces so serve can register it once.
type metricsHooks struct{}

func (metricsHooks) OnFrameStart(context.Context, string) {}

func (metricsHooks) OnFrameComplete(ctx context.Context, graph string, nodeCount int, d time.Duration) {
	framesPlayed.WithLabelValues(graph).Inc()
	frameDuration.Observe(float64(d) / float64(time.Millisecond))
	graphNodes.WithLabelValues(graph).Set(float64(nodeCount))
}

func (metricsHooks) OnConnectionMade(ctx context.Context, graph string) {
	connectionsMade.WithLabelValues(graph).Inc()
}

func (metricsHooks) OnConnectionBroken(ctx context.Context, graph string) {
	connectionsBroken.WithLabelValues(graph).Inc()
}

func (metricsHooks) OnSelectionChanged(ctx context.Context, graph string, size int) {
	selectionSize.WithLabelValues(graph).Set(float64(size))
}

func (metricsHooks) OnExportStart(context.Context, string) {}

func (metricsHooks) OnExportComplete(ctx context.Context, format string, size int, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	exportsCompleted.WithLabelValues(format, status).Inc()
	exportDuration.Observe(float64(d) / float64(time.Millisecond))
}

// registerMetrics installs the prometheus hooks into the global registry.
func registerMetrics() {
	h := metricsHooks{}
	observability.SetFrameHooks(h)
	observability.SetGraphHooks(h)
	observability.SetExportHooks(h)
}
