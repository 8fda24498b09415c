package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// SlipcastAnalysesTotal counts analyses by kind and outcome
	SlipcastAnalysesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "slipcast_analyses_total",
			Help: "Total number of graph analyses processed",
		},
		[]string{"kind", "outcome"},
	)

	// SlipcastGraphNodes tracks the node count of the most recent graph
	SlipcastGraphNodes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "slipcast_graph_nodes",
			Help: "Node count of the most recently analyzed graph",
		},
		[]string{"kind"},
	)

	// SlipcastCycleEdgesRemovedTotal counts edges removed during cycle repair
	SlipcastCycleEdgesRemovedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "slipcast_cycle_edges_removed_total",
			Help: "Total edges removed to break dependency cycles",
		},
	)

	// SlipcastAnalysisDuration tracks analysis latency
	SlipcastAnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "slipcast_analysis_duration_seconds",
			Help:    "Latency of graph analyses",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

func init() {
	// Register metrics with the default registry
	prometheus.MustRegister(SlipcastAnalysesTotal)
	prometheus.MustRegister(SlipcastGraphNodes)
	prometheus.MustRegister(SlipcastCycleEdgesRemovedTotal)
	prometheus.MustRegister(SlipcastAnalysisDuration)
}
