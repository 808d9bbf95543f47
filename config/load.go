package config

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// configFileName is the base name viper looks for (conductor.yaml).
const configFileName = "conductor"

// newViperInstance creates a viper instance with the standard conductor
// configuration: defaults, CONDUCTOR_ env prefix, and key replacer.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("CONDUCTOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config
// file not found error. Missing config files are expected, not fatal.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var notFound viper.ConfigFileNotFoundError
	return stderrors.As(err, &notFound)
}

// viperDecoderOption wires mapstructure hooks for duration and slice
// values arriving as strings.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

// Load reads configuration from all available sources with proper
// precedence (highest first):
//  1. Environment variables (CONDUCTOR_* prefix)
//  2. Project config (./conductor.yaml)
//  3. Global config (~/.conductor/conductor.yaml)
//  4. Built-in defaults
//
// Missing config files are not errors; malformed ones are.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Int("default_retries", cfg.DefaultRetries).
		Str("log_level", cfg.Log.Level).
		Msg("configuration loaded and unmarshaled")

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadFile reads a single explicit config file, merged over defaults
// and under environment variables. Used by tests and embedders that
// manage their own paths.
func LoadFile(path string) (*Config, error) {
	v := newViperInstance()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadGlobalConfig merges ~/.conductor/conductor.yaml when present.
func loadGlobalConfig(v *viper.Viper) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil //nolint:nilerr // No home directory means no global config
	}
	path := filepath.Join(home, "."+configFileName, configFileName+".yaml")
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // Missing global config is expected
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return fmt.Errorf("failed to read global config: %w", err)
	}
	return nil
}

// loadProjectConfig merges ./conductor.yaml when present.
func loadProjectConfig(v *viper.Viper) error {
	path := configFileName + ".yaml"
	if _, err := os.Stat(path); err != nil {
		return nil //nolint:nilerr // Missing project config is expected
	}
	v.SetConfigFile(path)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return fmt.Errorf("failed to read project config: %w", err)
	}
	return nil
}
