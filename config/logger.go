package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger builds the zerolog logger described by the configuration:
// stderr by default, a console writer when Log.Console is set, or a
// size-rotated file when Log.File is set.
func NewLogger(cfg *Config) zerolog.Logger {
	var out io.Writer = os.Stderr

	switch {
	case cfg != nil && cfg.Log.File != "":
		out = &lumberjack.Logger{
			Filename:   cfg.Log.File,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: cfg.Log.MaxBackups,
			Compress:   true,
		}
	case cfg != nil && cfg.Log.Console:
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	}

	level := zerolog.InfoLevel
	if cfg != nil && cfg.Log.Level != "" {
		if parsed, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
			level = parsed
		}
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}
