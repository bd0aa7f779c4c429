package cfg

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"shipment-predictor/internal/common"
	"shipment-predictor/internal/ml"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

type Settings struct {
	ListenAddr     string
	Backend        string
	ModelPath      string
	SchemaPath     string
	PythonPath     string
	ScriptPath     string
	ModelURL       string
	PredictTimeout time.Duration
	LogLevel       zerolog.Level
	LogPretty      bool
	CORSOrigins    []string
}

type ConfigFile struct {
	Server struct {
		ListenAddr  string   `yaml:"listenAddr"`
		CORSOrigins []string `yaml:"corsOrigins"`
	} `yaml:"server"`

	Model struct {
		Backend        string `yaml:"backend"`
		Path           string `yaml:"path"`
		FeatureColumns string `yaml:"featureColumns"`
		PythonPath     string `yaml:"pythonPath"`
		ScriptPath     string `yaml:"scriptPath"`
		URL            string `yaml:"url"`
		Timeout        string `yaml:"timeout"`
	} `yaml:"model"`

	Log struct {
		Level  string `yaml:"level"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`
}

// Load reads the .env file when present, then the YAML file named by
// CONFIG_FILE, falling back to environment variables alone.
// Environment variables override YAML values.
func Load() (Settings, error) {
	if err := godotenv.Load(common.DefaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Settings{}, fmt.Errorf("failed to load %s: %w", common.DefaultEnvFile, err)
	}

	if configPath := os.Getenv(common.EnvConfigFile); configPath != "" {
		return loadFromYAML(configPath)
	}
	return loadFromEnv()
}

func loadFromYAML(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config ConfigFile
	if err := yaml.Unmarshal(data, &config); err != nil {
		return Settings{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	timeout := config.Model.Timeout
	if timeout == "" {
		timeout = common.DefaultPredictTimeout
	}
	logLevel := config.Log.Level
	if logLevel == "" {
		logLevel = common.DefaultLogLevel
	}

	return build(rawSettings{
		listenAddr: getEnvOrDefault(common.EnvListenAddr, orDefault(config.Server.ListenAddr, common.DefaultListenAddr)),
		backend:    getEnvOrDefault(common.EnvModelBackend, orDefault(config.Model.Backend, common.DefaultModelBackend)),
		modelPath:  getEnvOrDefault(common.EnvModelPath, orDefault(config.Model.Path, common.DefaultModelPath)),
		schemaPath: getEnvOrDefault(common.EnvSchemaPath, orDefault(config.Model.FeatureColumns, common.DefaultSchemaPath)),
		pythonPath: getEnvOrDefault(common.EnvPythonPath, config.Model.PythonPath),
		scriptPath: getEnvOrDefault(common.EnvScriptPath, config.Model.ScriptPath),
		modelURL:   getEnvOrDefault(common.EnvModelURL, config.Model.URL),
		timeout:    getEnvOrDefault(common.EnvPredictTimeout, timeout),
		logLevel:   getEnvOrDefault(common.EnvLogLevel, logLevel),
		logPretty:  getBoolOrDefault(common.EnvLogPretty, config.Log.Pretty),
		origins:    getListOrDefault(common.EnvCORSOrigins, config.Server.CORSOrigins),
	})
}

func loadFromEnv() (Settings, error) {
	return build(rawSettings{
		listenAddr: getEnvOrDefault(common.EnvListenAddr, common.DefaultListenAddr),
		backend:    getEnvOrDefault(common.EnvModelBackend, common.DefaultModelBackend),
		modelPath:  getEnvOrDefault(common.EnvModelPath, common.DefaultModelPath),
		schemaPath: getEnvOrDefault(common.EnvSchemaPath, common.DefaultSchemaPath),
		pythonPath: os.Getenv(common.EnvPythonPath),
		scriptPath: os.Getenv(common.EnvScriptPath),
		modelURL:   os.Getenv(common.EnvModelURL),
		timeout:    getEnvOrDefault(common.EnvPredictTimeout, common.DefaultPredictTimeout),
		logLevel:   getEnvOrDefault(common.EnvLogLevel, common.DefaultLogLevel),
		logPretty:  getBoolOrDefault(common.EnvLogPretty, false),
		origins:    getListOrDefault(common.EnvCORSOrigins, nil),
	})
}

type rawSettings struct {
	listenAddr, backend, modelPath, schemaPath string
	pythonPath, scriptPath, modelURL           string
	timeout, logLevel                          string
	logPretty                                  bool
	origins                                    []string
}

func build(r rawSettings) (Settings, error) {
	timeout, err := time.ParseDuration(r.timeout)
	if err != nil {
		return Settings{}, fmt.Errorf("invalid predict timeout %q: %w", r.timeout, err)
	}
	level, err := zerolog.ParseLevel(strings.ToLower(r.logLevel))
	if err != nil {
		return Settings{}, fmt.Errorf("invalid log level %q: %w", r.logLevel, err)
	}

	settings := Settings{
		ListenAddr:     r.listenAddr,
		Backend:        strings.ToLower(r.backend),
		ModelPath:      r.modelPath,
		SchemaPath:     r.schemaPath,
		PythonPath:     r.pythonPath,
		ScriptPath:     r.scriptPath,
		ModelURL:       r.modelURL,
		PredictTimeout: timeout,
		LogLevel:       level,
		LogPretty:      r.logPretty,
		CORSOrigins:    r.origins,
	}

	if err := validateSettings(&settings); err != nil {
		return Settings{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return settings, nil
}

// ModelConfig returns the classifier settings for ml.Load.
func (s *Settings) ModelConfig() ml.Config {
	return ml.Config{
		Backend:    s.Backend,
		ModelPath:  s.ModelPath,
		PythonPath: s.PythonPath,
		ScriptPath: s.ScriptPath,
		ModelURL:   s.ModelURL,
		Timeout:    s.PredictTimeout,
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getListOrDefault(key string, defaultValue []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// validateSettings checks that the configured backend has what it needs
func validateSettings(settings *Settings) error {
	if settings.ListenAddr == "" {
		return fmt.Errorf("listen address cannot be empty")
	}
	if settings.SchemaPath == "" {
		return fmt.Errorf("feature columns path cannot be empty")
	}
	if settings.PredictTimeout < 0 || settings.PredictTimeout > 5*time.Minute {
		return fmt.Errorf("predict timeout must be between 0 and 5m, got %v", settings.PredictTimeout)
	}

	switch settings.Backend {
	case ml.BackendLinear, ml.BackendScript:
		if settings.ModelPath == "" {
			return fmt.Errorf("model path is required for the %s backend", settings.Backend)
		}
	case ml.BackendHTTP:
		if settings.ModelURL == "" {
			return fmt.Errorf("model URL is required for the http backend")
		}
		if !strings.HasPrefix(settings.ModelURL, "http://") && !strings.HasPrefix(settings.ModelURL, "https://") {
			return fmt.Errorf("model URL must be http or https, got %q", settings.ModelURL)
		}
	default:
		return fmt.Errorf("model backend must be one of %s, %s, %s; got %q",
			ml.BackendLinear, ml.BackendScript, ml.BackendHTTP, settings.Backend)
	}

	return nil
}
