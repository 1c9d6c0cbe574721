package campaign

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig marks a broken campaign configuration. Evaluation must
	// abort when it is returned.
	ErrInvalidConfig = errors.New("invalid campaign configuration")
	// ErrNilCart is returned when a runner is asked to evaluate a nil cart.
	ErrNilCart = errors.New("campaign: nil cart")
)

// ConfigError describes a single invalid configuration value.
type ConfigError struct {
	Field  string
	Value  any
	Reason string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e == nil {
		return ""
	}
	if e.Value == nil {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %v: %s", e.Field, e.Value, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

func configErr(field string, value any, reason string) error {
	return &ConfigError{Field: field, Value: value, Reason: reason}
}
