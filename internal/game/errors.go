package game

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrForcesGenerated is returned when GenerateForces runs a second time.
var ErrForcesGenerated = errors.New("forces already generated")

// ErrNoRand is returned when an engine is built without a random source.
var ErrNoRand = errors.New("random source is nil")

// ConfigError reports a configuration value that cannot start a battle.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

func configErrorf(field, format string, args ...any) error {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// mustf panics when an engine invariant is broken. Invariant failures are
// defects and are never recovered.
func mustf(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("game invariant violated: "+format, args...))
	}
}
