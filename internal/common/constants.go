package common

// Environment variable keys
const (
	EnvConfigFile     = "CONFIG_FILE"
	EnvListenAddr     = "LISTEN_ADDR"
	EnvModelBackend   = "MODEL_BACKEND"
	EnvModelPath      = "MODEL_PATH"
	EnvSchemaPath     = "FEATURE_COLUMNS_PATH"
	EnvPythonPath     = "PYTHON_PATH"
	EnvScriptPath     = "INFERENCE_SCRIPT"
	EnvModelURL       = "MODEL_URL"
	EnvPredictTimeout = "PREDICT_TIMEOUT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogPretty      = "LOG_PRETTY"
	EnvCORSOrigins    = "CORS_ALLOWED_ORIGINS"
)

// Configuration defaults
const (
	DefaultListenAddr     = ":8501"
	DefaultModelBackend   = "script"
	DefaultModelPath      = "best_xgboost_model.pkl"
	DefaultSchemaPath     = "feature_columns.pkl"
	DefaultPredictTimeout = "10s"
	DefaultLogLevel       = "info"
	DefaultEnvFile        = ".env"
)
