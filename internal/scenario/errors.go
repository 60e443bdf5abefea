package scenario

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every ValidationError.
var ErrInvalidConfig = errors.New("invalid scenario config")

// ValidationError describes a rejected config field.
type ValidationError struct {
	Scenario string // Scenario name; empty for top-level fields
	Field    string // Field path within the scenario (e.g. "mean.shape")
	Details  string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Scenario != "" {
		return fmt.Sprintf("scenario %q: %s: %s", e.Scenario, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Details)
}

// Unwrap lets errors.Is match ErrInvalidConfig.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfig
}
