package ml

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"shipment-predictor/internal/features"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testRow = features.Row{
	Columns: []string{"Customer_rating", "Weight_in_gms"},
	Values:  []float64{5, 2500},
}

func TestPredictor_Threshold(t *testing.T) {
	tests := []struct {
		prob float64
		want int
	}{
		{0, ClassDelayed},
		{0.3, ClassDelayed},
		{0.5, ClassDelayed},
		{0.5000001, ClassOnTime},
		{0.8, ClassOnTime},
		{1, ClassOnTime},
	}

	for _, tc := range tests {
		p := NewPredictor(&StaticClassifier{ProbOnTime: tc.prob})
		got := p.Predict(context.Background(), testRow)
		assert.Equal(t, tc.want, got.Class, "prob %v", tc.prob)
		assert.Equal(t, tc.prob, got.ProbOnTime)
		assert.False(t, got.Fallback)
		assert.NoError(t, got.Cause)
	}
}

func TestPredictor_FallbackOnFailure(t *testing.T) {
	tests := []struct {
		name string
		clf  Classifier
	}{
		{"error", &StaticClassifier{Err: errors.New("schema mismatch")}},
		{"panic", ClassifierFunc(func(context.Context, features.Row) ([]float64, error) {
			panic("corrupt artifact")
		})},
		{"wrong arity", ClassifierFunc(func(context.Context, features.Row) ([]float64, error) {
			return []float64{0.9}, nil
		})},
		{"NaN", ClassifierFunc(func(context.Context, features.Row) ([]float64, error) {
			return []float64{math.NaN(), math.NaN()}, nil
		})},
		{"out of range", ClassifierFunc(func(context.Context, features.Row) ([]float64, error) {
			return []float64{-0.2, 1.2}, nil
		})},
		{"nil classifier", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			metrics := &MockMetrics{}
			p := NewPredictorWithMetrics(tc.clf, metrics, 0)

			got := p.Predict(context.Background(), testRow)
			assert.Equal(t, 0.5, got.ProbOnTime)
			assert.Equal(t, 1, got.Class)
			assert.True(t, got.Fallback)
			assert.Error(t, got.Cause)

			assert.Equal(t, 1, metrics.failures)
			assert.Equal(t, 1, metrics.fallbackUse)
			assert.Equal(t, 0, metrics.predictions)
			assert.Equal(t, 1, metrics.latencyCount)
		})
	}
}

func TestPredictor_InvalidProbabilitiesError(t *testing.T) {
	p := NewPredictor(ClassifierFunc(func(context.Context, features.Row) ([]float64, error) {
		return []float64{0.1, 0.2, 0.7}, nil
	}))
	got := p.Predict(context.Background(), testRow)
	assert.ErrorIs(t, got.Cause, ErrInvalidProbabilities)
}

func TestPredictor_Timeout(t *testing.T) {
	metrics := &MockMetrics{}
	slow := ClassifierFunc(func(ctx context.Context, _ features.Row) ([]float64, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p := NewPredictorWithMetrics(slow, metrics, 10*time.Millisecond)

	got := p.Predict(context.Background(), testRow)
	assert.True(t, got.Fallback)
	assert.ErrorIs(t, got.Cause, context.DeadlineExceeded)
	assert.Equal(t, 1, metrics.timeouts)
}

func TestPredictor_MetricsTracking(t *testing.T) {
	metrics := &MockMetrics{}
	p := NewPredictorWithMetrics(&StaticClassifier{ProbOnTime: 0.7}, metrics, time.Second)

	for i := 0; i < 3; i++ {
		p.Predict(context.Background(), testRow)
	}

	assert.Equal(t, 3, metrics.predictions)
	assert.Equal(t, 0, metrics.fallbackUse)
	assert.Equal(t, []float64{0.7, 0.7, 0.7}, metrics.predictionScores)
	assert.Equal(t, 3, metrics.latencyCount)
}

func TestPredictor_PassesRowThrough(t *testing.T) {
	clf := &StaticClassifier{ProbOnTime: 0.6}
	NewPredictor(clf).Predict(context.Background(), testRow)

	rows := clf.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, testRow, rows[0])
}

func TestPredictor_Concurrency(t *testing.T) {
	metrics := &MockMetrics{}
	p := NewPredictorWithMetrics(&StaticClassifier{ProbOnTime: 0.9}, metrics, 0)

	const workers, calls = 8, 50
	done := make(chan struct{}, workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < calls; i++ {
				p.Predict(context.Background(), testRow)
			}
		}()
	}
	for w := 0; w < workers; w++ {
		<-done
	}

	metrics.mu.Lock()
	defer metrics.mu.Unlock()
	assert.Equal(t, workers*calls, metrics.predictions)
}
