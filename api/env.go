package api

// Environment variables used by assetmap.
const (
	// EnvPrefix is the prefix for all assetmap environment variables.
	// Config keys bind to the environment as ASSETMAP_<UPPER_SNAKE_KEY>.
	EnvPrefix = "ASSETMAP"
	// LogLevelEnv is the environment variable used to set the log level.
	LogLevelEnv = "ASSETMAP_LOG_LEVEL"
	// ConfigFileEnv is the environment variable used to set the configuration file.
	ConfigFileEnv = "ASSETMAP_CONFIG_FILE"
)
