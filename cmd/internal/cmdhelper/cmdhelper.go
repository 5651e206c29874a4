// Package cmdhelper wires flags, environment variables and the optional
// config file into one validated configuration.
//
// Precedence, highest first: flags, ASSETMAP_* environment variables,
// config file, built-in defaults.
package cmdhelper

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tweag/assetmap/api"
	"github.com/tweag/assetmap/internal/logging"
)

// ViperConfigReader reads a config file (any format viper understands,
// chosen by extension) on top of a base configuration.
type ViperConfigReader struct {
	ConfigPath string
}

func (r ViperConfigReader) Read(config api.Config) (api.Config, error) {
	v := viper.New()
	setDefaultsFrom(v, config)
	v.SetConfigFile(r.ConfigPath)
	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return config, api.ErrConfigNotFound
		}
		return config, err
	}
	if err := v.Unmarshal(&config); err != nil {
		return config, err
	}
	return config, nil
}

// Configure assembles the configuration of a command invocation and
// points logging at the configured level and format.
// The command's flags must use the config keys as names.
func Configure(cmd *cobra.Command) (api.Config, error) {
	configPath, ignoreMissing := configFilePath(cmd)
	config, err := readConfigFileOrDefault(configPath, ignoreMissing)
	if err != nil {
		return api.Config{}, err
	}

	// Overlay environment variables and any flags the user set.
	v := viper.New()
	setDefaultsFrom(v, config)
	v.SetEnvPrefix(api.EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return api.Config{}, err
	}
	if err := v.Unmarshal(&config); err != nil {
		return api.Config{}, err
	}

	logging.SetLevel(logging.FromString(config.LogLevel))
	logging.SetFormat(config.LogFormat)
	return config, config.Validate()
}

func configFilePath(cmd *cobra.Command) (path string, ignoreMissing bool) {
	if flag := cmd.Flags().Lookup("config"); flag != nil && flag.Changed {
		return flag.Value.String(), false
	}
	if configPathEnv, ok := os.LookupEnv(api.ConfigFileEnv); ok {
		return configPathEnv, false
	}
	// default config (parse if exists)
	return ".assetmap.yaml", true
}

func readConfigFileOrDefault(configPath string, ignoreMissing bool) (api.Config, error) {
	config := api.DefaultConfig()
	config, err := api.ReadConfig(ViperConfigReader{ConfigPath: configPath}, config)
	if ignoreMissing && errors.Is(err, api.ErrConfigNotFound) {
		return config, nil
	} else if err != nil {
		return api.Config{}, fmt.Errorf("reading config from %s: %w", configPath, err)
	}
	return config, nil
}

// setDefaultsFrom registers every config key with viper so that env
// overlays and partial config files merge into the base instead of
// zeroing absent fields.
func setDefaultsFrom(v *viper.Viper, config api.Config) {
	v.SetDefault("manifest", config.ManifestPath)
	v.SetDefault("listen", config.Listen)
	v.SetDefault("base_path", config.BasePath)
	v.SetDefault("digest_function", config.DigestFunction)
	v.SetDefault("cache_control", config.CacheControl)
	v.SetDefault("watch", config.Watch)
	v.SetDefault("log_level", config.LogLevel)
	v.SetDefault("log_format", config.LogFormat)
}
