// Package ml provides the delivery classifier used by the prediction
// pipeline: the probability capability every model backend exposes, the
// backends themselves (native logistic model, Python subprocess, remote
// model server) and the Predictor that thresholds the output and degrades
// to a fixed result when the model fails.
package ml

import (
	"context"
	"errors"
	"fmt"
	"math"

	"shipment-predictor/internal/features"
)

// Indexes into the probability pair a Classifier returns.
const (
	ClassDelayed = 0
	ClassOnTime  = 1
)

var ErrInvalidProbabilities = errors.New("invalid probabilities")

// Classifier is a fitted binary model. Given a row aligned to the trained
// schema it returns [P(delayed), P(on time)].
type Classifier interface {
	PredictProba(ctx context.Context, row features.Row) ([]float64, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, row features.Row) ([]float64, error)

func (f ClassifierFunc) PredictProba(ctx context.Context, row features.Row) ([]float64, error) {
	return f(ctx, row)
}

// checkProbabilities validates a classifier output pair.
func checkProbabilities(probs []float64) error {
	if len(probs) != 2 {
		return fmt.Errorf("%w: expected 2 probabilities, got %d", ErrInvalidProbabilities, len(probs))
	}
	for i, p := range probs {
		if math.IsNaN(p) || p < 0 || p > 1 {
			return fmt.Errorf("%w: probability %d is %v", ErrInvalidProbabilities, i, p)
		}
	}
	return nil
}
