package secrets

import (
	"errors"
	"fmt"
)

// ErrMissingConfiguration is matched by every error that means no valid,
// non-placeholder key could be resolved. It is not retryable.
var ErrMissingConfiguration = errors.New("missing configuration")

// MissingConfigurationError names the variable that must be supplied.
type MissingConfigurationError struct {
	Variable string
	// Placeholder is true when a value was found but it was the placeholder.
	Placeholder bool
}

func (e *MissingConfigurationError) Error() string {
	return fmt.Sprintf("Google Maps API key not provided. Pass it with %s", OverrideHint(e.Variable))
}

// Is reports whether target is ErrMissingConfiguration.
func (e *MissingConfigurationError) Is(target error) bool {
	return target == ErrMissingConfiguration
}

// OverrideHint returns the build flag that supplies variable.
func OverrideHint(variable string) string {
	return fmt.Sprintf("--dart-define=%s=<api-key>", variable)
}
