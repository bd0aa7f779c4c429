// Package metrics provides Prometheus metrics collection for the shipment
// delivery predictor. It defines the request, classifier and rule-override
// metrics exposed on the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the predictor.
type Metrics struct {
	// Request metrics
	PredictionsServed *prometheus.CounterVec // Final verdicts served, by class
	InputErrors       prometheus.Counter     // Submissions rejected before prediction
	RuleOverrides     *prometheus.CounterVec // Rule triggers that forced a delayed verdict, by rule

	// Classifier metrics
	MLPredictions      prometheus.Counter   // Successful classifier calls
	MLFailures         prometheus.Counter   // Failed classifier calls
	MLLatency          prometheus.Histogram // Classifier latency in seconds
	MLPredictionScores prometheus.Histogram // Distribution of on-time probabilities
	MLTimeouts         prometheus.Counter   // Classifier calls that hit the deadline
	MLFallbackUse      prometheus.Counter   // Times the fallback prediction was served
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for testing).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsServed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "predictions_served_total",
			Help: "Total number of delivery predictions served, by final class",
		}, []string{"class"}),
		InputErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "input_errors_total",
			Help: "Total number of submissions rejected before prediction",
		}),
		RuleOverrides: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rule_overrides_total",
			Help: "Total number of rule triggers that forced a delayed verdict, by rule",
		}, []string{"rule"}),
		MLPredictions: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_predictions_total",
			Help: "Total number of successful classifier predictions",
		}),
		MLFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_failures_total",
			Help: "Total number of classifier failures",
		}),
		MLLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ml_latency_seconds",
			Help:    "Classifier latency in seconds",
			Buckets: []float64{0.0001, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}),
		MLPredictionScores: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ml_prediction_scores",
			Help:    "Distribution of classifier on-time probabilities",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),
		MLTimeouts: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_timeouts_total",
			Help: "Total number of classifier timeouts",
		}),
		MLFallbackUse: factory.NewCounter(prometheus.CounterOpts{
			Name: "ml_fallback_use_total",
			Help: "Total number of times the fallback prediction was served",
		}),
	}
}
