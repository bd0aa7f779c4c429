package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"shipment-predictor/internal/features"

	"github.com/rs/zerolog/log"
)

// ScriptClassifier serves a pickled scikit-learn/XGBoost model by running
// a Python inference script per prediction. The request goes to stdin as
// JSON and the script answers with a ProbaResponse on stdout.
type ScriptClassifier struct {
	pythonPath string
	scriptPath string
	modelPath  string
}

// NewScriptClassifier locates Python and the inference script. An empty
// pythonPath searches for an interpreter with joblib installed; an empty
// scriptPath writes the embedded script next to the model.
func NewScriptClassifier(modelPath, pythonPath, scriptPath string) (*ScriptClassifier, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("model artifact: %w", err)
	}

	if pythonPath == "" {
		p, err := findPython()
		if err != nil {
			return nil, err
		}
		pythonPath = p
	}

	if scriptPath == "" {
		scriptPath = filepath.Join(filepath.Dir(modelPath), "predict_proba_embedded.py")
		if err := createInferenceScript(scriptPath); err != nil {
			return nil, fmt.Errorf("failed to create inference script: %w", err)
		}
	} else if _, err := os.Stat(scriptPath); err != nil {
		return nil, fmt.Errorf("inference script: %w", err)
	}

	return &ScriptClassifier{
		pythonPath: pythonPath,
		scriptPath: scriptPath,
		modelPath:  modelPath,
	}, nil
}

func (c *ScriptClassifier) PredictProba(ctx context.Context, row features.Row) ([]float64, error) {
	reqJSON, err := json.Marshal(ProbaRequest{Columns: row.Columns, Features: row.Values})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	cmd := exec.CommandContext(ctx, c.pythonPath, c.scriptPath, c.modelPath)
	cmd.Stdin = bytes.NewReader(reqJSON)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Error().
			Err(err).
			Str("python_path", c.pythonPath).
			Str("script_path", c.scriptPath).
			Str("model_path", c.modelPath).
			Str("stderr", stderr.String()).
			Str("stdout", stdout.String()).
			Bool("context_cancelled", ctx.Err() != nil).
			Msg("Python inference execution failed")

		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("prediction timeout: %w", ctx.Err())
		}

		// The script reports its own failures as JSON on stdout.
		var resp ProbaResponse
		if json.Unmarshal(stdout.Bytes(), &resp) == nil && resp.Error != "" {
			return nil, fmt.Errorf("python inference error: %s", resp.Error)
		}
		return nil, fmt.Errorf("python inference failed: %w, stderr: %s", err, stderr.String())
	}

	var resp ProbaResponse
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, stdout: %s", err, stdout.String())
	}
	if resp.Error != "" {
		return nil, fmt.Errorf("python inference error: %s", resp.Error)
	}
	return resp.Probabilities, nil
}

func findPython() (string, error) {
	var candidates []string
	if venv := os.Getenv("VIRTUAL_ENV"); venv != "" {
		candidates = append(candidates,
			filepath.Join(venv, "bin", "python3"),
			filepath.Join(venv, "bin", "python"),
			filepath.Join(venv, "Scripts", "python.exe"),
		)
	}
	for _, name := range []string{"python3", "python"} {
		if p, err := exec.LookPath(name); err == nil {
			candidates = append(candidates, p)
		}
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		out, err := exec.Command(p, "-c", "import sys, joblib; print('Python', sys.version)").Output()
		if err == nil && strings.Contains(string(out), "Python 3") {
			log.Info().Str("python_path", p).Msg("Using Python for model inference")
			return p, nil
		}
	}

	return "", fmt.Errorf("no Python 3 interpreter with joblib found")
}

func createInferenceScript(scriptPath string) error {
	script := `#!/usr/bin/env python3
"""predict_proba bridge for the shipment delivery predictor."""
import json
import sys

try:
    import joblib
    import pandas as pd
except ImportError as e:
    print(json.dumps({"error": "missing dependency: %s" % e}))
    sys.exit(1)


def main():
    if len(sys.argv) != 2:
        print(json.dumps({"error": "usage: predict_proba.py <model_path>"}))
        sys.exit(1)
    try:
        request = json.load(sys.stdin)
        frame = pd.DataFrame([request["features"]], columns=request["columns"])
        model = joblib.load(sys.argv[1])
        proba = model.predict_proba(frame)[0]
        print(json.dumps({"probabilities": [float(p) for p in proba]}))
    except Exception as e:
        print(json.dumps({"error": str(e)}))
        sys.exit(1)


if __name__ == "__main__":
    main()
`
	return os.WriteFile(scriptPath, []byte(script), 0o755)
}
