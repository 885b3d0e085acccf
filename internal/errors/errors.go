// Package errors defines the error taxonomy for lendlens.
//
// Probe and job failures are always recovered locally and carried as values
// inside reports; only configuration errors terminate an operation early.
package errors

import (
	"errors"
	"fmt"
)

// ConfigError marks invalid orchestrator input detected before any work
// starts. It is the only error class allowed to abort a run.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewConfigError builds a ConfigError for the given field.
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsConfigError reports whether err is (or wraps) a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// Sentinel configuration failures shared across entry points.
var (
	ErrNoSubjects      = &ConfigError{Field: "subjects", Message: "at least one subject is required"}
	ErrNoSourceKinds   = &ConfigError{Field: "sources", Message: "at least one source kind is required"}
	ErrNoResearchKinds = &ConfigError{Field: "research", Message: "at least one research kind is required"}
)
