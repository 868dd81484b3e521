package fallback

import (
	"fmt"
)

// BothProvidersFailedError is returned when the primary and the fallback
// provider both failed for the same turn. It is the only error Run returns
// once both providers have been tried.
type BothProvidersFailedError struct {
	// Primary and Fallback are the display names of the two providers
	Primary  string
	Fallback string

	// PrimaryError is the error that triggered the escalation
	PrimaryError error

	// FallbackError is the error returned by the fallback provider
	FallbackError error
}

// Error implements the error interface.
func (e *BothProvidersFailedError) Error() string {
	return fmt.Sprintf("Both %s and %s failed: %v; %v", e.Primary, e.Fallback, e.PrimaryError, e.FallbackError)
}

// Unwrap exposes both provider errors to errors.Is and errors.As.
func (e *BothProvidersFailedError) Unwrap() []error {
	return []error{e.PrimaryError, e.FallbackError}
}
