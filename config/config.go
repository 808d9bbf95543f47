// Package config provides library-wide configuration for conductor.
//
// Configuration is loaded from YAML files and CONDUCTOR_* environment
// variables via viper and yields the defaults workers and definitions
// fall back to: retry counts, breakpoint sets, log level and sink, and
// tags attached to every record.
package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/conductor"
)

// Config holds the library-wide defaults the core consumes.
type Config struct {
	// DefaultRetries is the retry count applied when a definition does
	// not set its own.
	DefaultRetries int `mapstructure:"default_retries"`

	// TaskBreakpoints is the strict-mode breakpoint fallback.
	TaskBreakpoints []string `mapstructure:"task_breakpoints"`

	// WorkflowBreakpoints is the workflow breakpoint fallback.
	WorkflowBreakpoints []string `mapstructure:"workflow_breakpoints"`

	// Log configures the structured log sink.
	Log LogConfig `mapstructure:"log"`

	// Tags are attached to every log record.
	Tags []string `mapstructure:"tags"`
}

// LogConfig configures the zerolog sink built by NewLogger.
type LogConfig struct {
	// Level is the minimum level emitted (trace..panic). Default info.
	Level string `mapstructure:"level"`

	// File routes output to a size-rotated file instead of stderr.
	File string `mapstructure:"file"`

	// MaxSizeMB is the rotation threshold for File. Default 10.
	MaxSizeMB int `mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files kept. Default 3.
	MaxBackups int `mapstructure:"max_backups"`

	// Console renders human-readable output instead of JSON.
	Console bool `mapstructure:"console"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultRetries:      0,
		WorkflowBreakpoints: []string{"failed"},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Settings converts the loaded configuration into the Worker-level
// defaults the core consumes. Wire it in at construction:
//
//	w := conductor.NewWorker(config.NewLogger(cfg),
//		conductor.WithDefaults(cfg.Settings()))
//
// Per-definition settings override these per field.
func (c *Config) Settings() conductor.Settings {
	if c == nil {
		return conductor.Settings{}
	}
	return conductor.Settings{
		Retries:             c.DefaultRetries,
		TaskBreakpoints:     c.TaskBreakpoints,
		WorkflowBreakpoints: c.WorkflowBreakpoints,
		Tags:                c.Tags,
		LogLevel:            c.Log.Level,
	}
}

// setDefaults seeds a viper instance with the built-in configuration.
func setDefaults(v *viper.Viper) {
	def := Default()
	v.SetDefault("default_retries", def.DefaultRetries)
	v.SetDefault("workflow_breakpoints", def.WorkflowBreakpoints)
	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.max_size_mb", def.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
}
