package ml

import (
	"context"
	"sync"

	"shipment-predictor/internal/features"
)

// MockMetrics implements MetricsInterface for testing
type MockMetrics struct {
	mu               sync.Mutex
	predictions      int
	failures         int
	latencySum       float64
	latencyCount     int
	timeouts         int
	fallbackUse      int
	predictionScores []float64
}

func (m *MockMetrics) MLPredictionsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions++
}

func (m *MockMetrics) MLFailuresInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures++
}

func (m *MockMetrics) MLLatencyObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latencySum += v
	m.latencyCount++
}

func (m *MockMetrics) MLPredictionScoresObserve(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictionScores = append(m.predictionScores, v)
}

func (m *MockMetrics) MLTimeoutsInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeouts++
}

func (m *MockMetrics) MLFallbackUseInc() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fallbackUse++
}

// StaticClassifier always returns the same on-time probability. It stands
// in for a real model in tests of code that consumes a Classifier.
type StaticClassifier struct {
	ProbOnTime float64
	Err        error

	mu   sync.Mutex
	rows []features.Row
}

func (s *StaticClassifier) PredictProba(_ context.Context, row features.Row) ([]float64, error) {
	s.mu.Lock()
	s.rows = append(s.rows, row)
	s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	return []float64{1 - s.ProbOnTime, s.ProbOnTime}, nil
}

// Rows returns the rows the classifier was called with.
func (s *StaticClassifier) Rows() []features.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]features.Row, len(s.rows))
	copy(out, s.rows)
	return out
}
