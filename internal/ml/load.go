package ml

import (
	"context"
	"fmt"
	"time"

	"shipment-predictor/internal/features"

	"github.com/rs/zerolog/log"
)

// Backend names accepted in configuration.
const (
	BackendLinear = "linear"
	BackendScript = "script"
	BackendHTTP   = "http"
)

// Config selects and locates the model artifact.
type Config struct {
	Backend    string
	ModelPath  string
	PythonPath string
	ScriptPath string
	ModelURL   string
	Timeout    time.Duration
}

// Load builds the configured classifier and probes it once with an
// all-zero row of the schema's width. Any failure means the process has
// no usable model.
func Load(ctx context.Context, c Config, schema *features.Schema) (Classifier, error) {
	var (
		clf Classifier
		err error
	)

	switch c.Backend {
	case BackendLinear:
		clf, err = LoadLinearModel(c.ModelPath, schema)
	case BackendScript:
		clf, err = NewScriptClassifier(c.ModelPath, c.PythonPath, c.ScriptPath)
	case BackendHTTP:
		clf = NewRemoteClassifier(c.ModelURL, c.Timeout)
	default:
		return nil, fmt.Errorf("unknown model backend %q", c.Backend)
	}
	if err != nil {
		return nil, err
	}

	if err := healthCheck(ctx, clf, schema, c.Timeout); err != nil {
		return nil, fmt.Errorf("model health check failed: %w", err)
	}

	log.Info().
		Str("backend", c.Backend).
		Str("model_path", c.ModelPath).
		Str("model_url", c.ModelURL).
		Int("features", schema.Len()).
		Msg("model loaded successfully")
	return clf, nil
}

func healthCheck(ctx context.Context, clf Classifier, schema *features.Schema, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	row := features.Row{Columns: schema.Names(), Values: make([]float64, schema.Len())}
	probs, err := clf.PredictProba(ctx, row)
	if err != nil {
		return err
	}
	return checkProbabilities(probs)
}
