package metrics

import "strconv"

// MetricsWrapper adapts Metrics to the small interfaces the ml and
// pipeline packages depend on, so neither imports Prometheus.
type MetricsWrapper struct {
	m *Metrics
}

func NewWrapper(m *Metrics) *MetricsWrapper {
	return &MetricsWrapper{m: m}
}

func (w *MetricsWrapper) MLPredictionsInc()                   { w.m.MLPredictions.Inc() }
func (w *MetricsWrapper) MLFailuresInc()                      { w.m.MLFailures.Inc() }
func (w *MetricsWrapper) MLLatencyObserve(v float64)          { w.m.MLLatency.Observe(v) }
func (w *MetricsWrapper) MLPredictionScoresObserve(v float64) { w.m.MLPredictionScores.Observe(v) }
func (w *MetricsWrapper) MLTimeoutsInc()                      { w.m.MLTimeouts.Inc() }
func (w *MetricsWrapper) MLFallbackUseInc()                   { w.m.MLFallbackUse.Inc() }

func (w *MetricsWrapper) PredictionServed(class int) {
	w.m.PredictionsServed.WithLabelValues(strconv.Itoa(class)).Inc()
}

func (w *MetricsWrapper) RuleOverride(rule string) {
	w.m.RuleOverrides.WithLabelValues(rule).Inc()
}

func (w *MetricsWrapper) InputErrorInc() { w.m.InputErrors.Inc() }
