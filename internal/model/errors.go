package model

import (
	"errors"
	"fmt"
)

// Common errors used across the application
var (
	// Configuration errors
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// Selection errors
	ErrInvalidSlot      = errors.New("invalid slot")
	ErrInvalidSelection = errors.New("piece is not selectable")
	ErrSelectionActive  = errors.New("a selection is already active")
	ErrNoSelection      = errors.New("no active selection")

	// Gesture errors
	ErrNotInGameplay = errors.New("game is not in the gameplay phase")

	// Hint errors
	ErrNoMoves         = errors.New("no legal moves")
	ErrUnknownStrategy = errors.New("unknown hint strategy")

	// Session errors
	ErrSessionNotFound  = errors.New("session not found")
	ErrInvalidViewport  = errors.New("invalid viewport")
	ErrInvalidPointerOp = errors.New("invalid pointer operation")
)

// ConfigError describes a construction parameter that cannot be honoured.
// It unwraps to ErrInvalidConfiguration.
type ConfigError struct {
	Field  string
	Reason string
}

// NewConfigError creates a ConfigError for the given field
func NewConfigError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}
