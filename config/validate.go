package config

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// Sentinel errors for configuration validation. Check with errors.Is().
var (
	// ErrConfigNil indicates a nil config was passed to validation.
	ErrConfigNil = errors.New("config is nil")

	// ErrInvalidRetries indicates a negative retry count.
	ErrInvalidRetries = errors.New("invalid retries")

	// ErrInvalidBreakpoint indicates a breakpoint value that is not a
	// known status.
	ErrInvalidBreakpoint = errors.New("invalid breakpoint")

	// ErrInvalidLogLevel indicates an unparseable log level.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

// validStatuses are the outcomes a breakpoint may name.
//
//nolint:gochecknoglobals // Read-only lookup table
var validStatuses = map[string]struct{}{
	"success": {},
	"skipped": {},
	"failed":  {},
}

// Validate checks a loaded configuration for values the core cannot
// consume. Returns the first problem found, wrapped around a sentinel.
func Validate(cfg *Config) error {
	if cfg == nil {
		return ErrConfigNil
	}

	if cfg.DefaultRetries < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidRetries, cfg.DefaultRetries)
	}

	for _, bp := range cfg.TaskBreakpoints {
		if err := validateBreakpoint(bp); err != nil {
			return err
		}
	}
	for _, bp := range cfg.WorkflowBreakpoints {
		if err := validateBreakpoint(bp); err != nil {
			return err
		}
	}

	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(cfg.Log.Level); err != nil {
			return fmt.Errorf("%w: %s", ErrInvalidLogLevel, cfg.Log.Level)
		}
	}

	return nil
}

func validateBreakpoint(bp string) error {
	if _, ok := validStatuses[bp]; !ok {
		return fmt.Errorf("%w: %s", ErrInvalidBreakpoint, bp)
	}
	return nil
}
