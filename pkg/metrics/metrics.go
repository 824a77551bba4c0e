package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	ModerationActions  *prometheus.CounterVec
	ModerationRejected *prometheus.CounterVec

	DeletionsExecuted *prometheus.CounterVec
	DeletionImpact    *prometheus.CounterVec
	AnalyzerLatency   prometheus.Histogram
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ModerationActions: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_actions_total",
			Help:      "Total number of moderation actions by entity and action",
		}, []string{"entity", "action"}),
		ModerationRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "moderation_rejected_total",
			Help:      "Total number of moderation actions rejected by the state machine",
		}, []string{"entity", "action"}),

		DeletionsExecuted: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletions_executed_total",
			Help:      "Total number of deletion executions by target type and outcome",
		}, []string{"target_type", "status"}),
		DeletionImpact: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deletion_impact_total",
			Help:      "Distribution of computed deletion impact levels",
		}, []string{"impact"}),
		AnalyzerLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "deletion_analyzer_duration_seconds",
			Help:      "Time spent computing deletion impact analyses",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}),
	}
}
