package api

import (
	"errors"
	"strings"

	"github.com/tweag/assetmap/integrity"
)

// Config is the configuration for the assetmap tool.
// It can be read from a config file, environment variables, or command-line flags.
// This configuration is shared by all subcommands.
type Config struct {
	// ManifestPath is the path to the asset manifest file
	// produced by the publishing pipeline.
	ManifestPath string `mapstructure:"manifest"`
	// Listen is the address the HTTP surface binds to.
	Listen string `mapstructure:"listen"`
	// BasePath is the path prefix all HTTP routes are registered under.
	BasePath string `mapstructure:"base_path"`
	// DigestFunction is the hash function used for collection fingerprints
	// and entity tags. One of "sha256", "sha384", "sha512".
	DigestFunction string `mapstructure:"digest_function"`
	// CacheControl is the Cache-Control header value served with
	// collection and import map responses.
	CacheControl string `mapstructure:"cache_control"`
	// Watch reloads the manifest on change instead of reading it once at startup.
	Watch bool `mapstructure:"watch"`
	// Log level. One of "debug", "info", "warn", "error".
	// Note that some messages are always printed, regardless of the log level (e.g. errors).
	// Default: "info"
	LogLevel string `mapstructure:"log_level"`
	// Log format. One of "text", "json", "logfmt".
	LogFormat string `mapstructure:"log_format"`
}

func (c Config) Validate() error {
	issues := []string{}
	if c.ManifestPath == "" {
		issues = append(issues, `manifest must be provided`)
	}
	switch c.DigestFunction {
	case "sha256", "sha384", "sha512": // allowed
	case "":
		issues = append(issues, `digest_function must be provided`)
	default:
		issues = append(issues, `digest_function must be one of "sha256", "sha384", "sha512"`)
	}
	if c.Listen == "" {
		issues = append(issues, `listen must be provided`)
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		issues = append(issues, `base_path must start with "/"`)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error": // allowed
	default:
		issues = append(issues, `log_level must be one of "debug", "info", "warn", "error"`)
	}
	switch c.LogFormat {
	case "text", "json", "logfmt": // allowed
	default:
		issues = append(issues, `log_format must be one of "text", "json", "logfmt"`)
	}

	if len(issues) > 0 {
		return errors.New("config validation failed: \n  " + strings.Join(issues, "\n  "))
	}
	return nil
}

// Algorithm returns the configured digest function.
// Validate must have accepted the config first.
func (c Config) Algorithm() integrity.Algorithm {
	algorithm, ok := integrity.AlgorithmFromString(c.DigestFunction)
	if !ok {
		return integrity.SHA256
	}
	return algorithm
}

// ErrConfigNotFound is returned by config readers when the config file
// does not exist. Callers decide whether that is fatal.
var ErrConfigNotFound = errors.New("config file not found")

type ConfigReader interface {
	Read(baseConfig Config) (Config, error)
}

func ReadConfig(reader ConfigReader, config Config) (Config, error) {
	return reader.Read(config)
}

func DefaultConfig() Config {
	return Config{
		ManifestPath:   "assets.json",
		Listen:         "localhost:8080",
		BasePath:       "/_assets",
		DigestFunction: "sha256",
		CacheControl:   "no-cache",
		Watch:          false,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}
