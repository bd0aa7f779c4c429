package ml

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"shipment-predictor/internal/features"

	"github.com/rs/zerolog/log"
)

// LoadSchema reads the trained column list. Pickled artifacts
// (feature_columns.pkl) are read through Python with joblib, everything
// else through features.LoadSchema.
func LoadSchema(ctx context.Context, path, pythonPath string) (*features.Schema, error) {
	if !features.IsPickled(path) {
		return features.LoadSchema(path)
	}
	return LoadPickledSchema(ctx, path, pythonPath, "")
}

// LoadPickledSchema runs the column export script against a joblib
// artifact holding a list of column names. An empty scriptPath writes the
// embedded script next to the artifact.
func LoadPickledSchema(ctx context.Context, path, pythonPath, scriptPath string) (*features.Schema, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read feature schema %s: %w", path, err)
	}

	if pythonPath == "" {
		p, err := findPython()
		if err != nil {
			return nil, err
		}
		pythonPath = p
	}
	if scriptPath == "" {
		scriptPath = filepath.Join(filepath.Dir(path), "export_columns_embedded.py")
		if err := createColumnsScript(scriptPath); err != nil {
			return nil, fmt.Errorf("failed to create column export script: %w", err)
		}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, pythonPath, scriptPath, path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	runErr := cmd.Run()

	var resp struct {
		Columns []string `json:"columns"`
		Error   string   `json:"error"`
	}
	parseErr := json.Unmarshal(stdout.Bytes(), &resp)
	switch {
	case parseErr == nil && resp.Error != "":
		return nil, fmt.Errorf("feature schema %s: %s", path, resp.Error)
	case runErr != nil:
		log.Error().
			Err(runErr).
			Str("python_path", pythonPath).
			Str("schema_path", path).
			Str("stderr", stderr.String()).
			Msg("column export failed")
		return nil, fmt.Errorf("feature schema %s: export failed: %w", path, runErr)
	case parseErr != nil:
		return nil, fmt.Errorf("feature schema %s: failed to parse export: %w", path, parseErr)
	}

	s, err := features.NewSchema(resp.Columns)
	if err != nil {
		return nil, fmt.Errorf("feature schema %s: %w", path, err)
	}
	return s, nil
}

func createColumnsScript(scriptPath string) error {
	script := `#!/usr/bin/env python3
"""Print the column list stored in a joblib artifact as JSON."""
import json
import sys

try:
    import joblib
except ImportError as e:
    print(json.dumps({"error": "missing dependency: %s" % e}))
    sys.exit(1)


def main():
    if len(sys.argv) != 2:
        print(json.dumps({"error": "usage: export_columns.py <columns_path>"}))
        sys.exit(1)
    try:
        columns = [str(c) for c in joblib.load(sys.argv[1])]
        print(json.dumps({"columns": columns}))
    except Exception as e:
        print(json.dumps({"error": str(e)}))
        sys.exit(1)


if __name__ == "__main__":
    main()
`
	return os.WriteFile(scriptPath, []byte(script), 0o755)
}
