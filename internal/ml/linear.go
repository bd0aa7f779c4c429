package ml

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"

	"shipment-predictor/internal/features"

	"gonum.org/v1/gonum/floats"
)

// LinearArtifact is the on-disk form of a logistic regression exported
// from training: one weight per trained column, keyed by column name.
type LinearArtifact struct {
	Version   string             `json:"version"`
	Intercept float64            `json:"intercept"`
	Weights   map[string]float64 `json:"weights"`
}

// LinearModel scores rows natively with sigmoid(w·x + b). Weights are laid
// out in schema order at load time.
type LinearModel struct {
	version   string
	intercept float64
	weights   []float64
}

// NewLinearModel lays the artifact weights out in schema order. Schema
// columns without a weight get 0; a weight for a column the schema does
// not have is an error.
func NewLinearModel(a LinearArtifact, schema *features.Schema) (*LinearModel, error) {
	if len(a.Weights) == 0 {
		return nil, fmt.Errorf("linear model has no weights")
	}
	if math.IsNaN(a.Intercept) || math.IsInf(a.Intercept, 0) {
		return nil, fmt.Errorf("linear model intercept is not finite")
	}

	w := make([]float64, schema.Len())
	for name, v := range a.Weights {
		i := schema.Index(name)
		if i < 0 {
			return nil, fmt.Errorf("linear model weight %q is not in the feature schema", name)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("linear model weight %q is not finite", name)
		}
		w[i] = v
	}

	return &LinearModel{version: a.Version, intercept: a.Intercept, weights: w}, nil
}

// LoadLinearModel reads a JSON linear artifact from path.
func LoadLinearModel(path string, schema *features.Schema) (*LinearModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model %s: %w", path, err)
	}

	var a LinearArtifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("failed to parse model %s: %w", path, err)
	}
	return NewLinearModel(a, schema)
}

func (m *LinearModel) Version() string { return m.version }

func (m *LinearModel) PredictProba(ctx context.Context, row features.Row) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(row.Values) != len(m.weights) {
		return nil, fmt.Errorf("expected %d features, got %d", len(m.weights), len(row.Values))
	}

	p := sigmoid(floats.Dot(m.weights, row.Values) + m.intercept)
	return []float64{1 - p, p}, nil
}

func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}
