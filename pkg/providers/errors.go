package providers

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// ErrorKind classifies why a provider call failed.
type ErrorKind string

const (
	// KindUnreachable covers transport failures and timeouts.
	KindUnreachable ErrorKind = "unreachable"

	// KindUpstreamRejected covers non-2xx responses.
	KindUpstreamRejected ErrorKind = "upstream_rejected"

	// KindMalformedResponse covers 2xx responses without a usable reply.
	KindMalformedResponse ErrorKind = "malformed_response"
)

// maxErrorBodyBytes caps how much of an upstream error body is kept.
const maxErrorBodyBytes = 512

// ProviderError is the error returned by every provider call.
type ProviderError struct {
	// Provider is the name of the provider that failed
	Provider string

	// Kind classifies the failure
	Kind ErrorKind

	// StatusCode is the HTTP status code (0 if the request never completed)
	StatusCode int

	// RetryAfter is the upstream Retry-After hint, when present
	RetryAfter time.Duration

	// Message is the upstream or local error message
	Message string

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	switch e.Kind {
	case KindUpstreamRejected:
		if e.Message != "" {
			return fmt.Sprintf("%s request failed with status %d: %s", e.Provider, e.StatusCode, e.Message)
		}
		return fmt.Sprintf("%s request failed with status %d", e.Provider, e.StatusCode)
	case KindUnreachable:
		if e.Cause != nil {
			return fmt.Sprintf("%s unreachable: %v", e.Provider, e.Cause)
		}
		return fmt.Sprintf("%s unreachable: %s", e.Provider, e.Message)
	case KindMalformedResponse:
		return fmt.Sprintf("%s returned a malformed response: %s", e.Provider, e.Message)
	default:
		return fmt.Sprintf("%s error: %s", e.Provider, e.Message)
	}
}

// Unwrap returns the underlying error for error chain support.
func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of the first *ProviderError in err's chain, or ""
// when there is none.
func KindOf(err error) ErrorKind {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// RetryAfterOf returns the upstream Retry-After hint carried by err, or zero.
func RetryAfterOf(err error) time.Duration {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.RetryAfter
	}
	return 0
}

// NewMalformedError builds a KindMalformedResponse error.
func NewMalformedError(provider, message string, cause error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Kind:     KindMalformedResponse,
		Message:  message,
		Cause:    cause,
	}
}

// upstreamMessage extracts a readable message from an error body. Both
// OpenAI and Gemini wrap errors as {"error": {"message": "..."}}.
func upstreamMessage(body []byte) string {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Error) > 0 {
		var detail struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &detail); err == nil && detail.Message != "" {
			return detail.Message
		}
		var text string
		if err := json.Unmarshal(envelope.Error, &text); err == nil && text != "" {
			return text
		}
	}

	msg := strings.TrimSpace(string(body))
	if len(msg) > maxErrorBodyBytes {
		cut := maxErrorBodyBytes
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + "..."
	}
	return msg
}

// ValidationError represents a request validation failure.
// This occurs when the request has invalid fields before sending to the provider.
type ValidationError struct {
	// Field is the name of the invalid field
	Field string

	// Message describes what is invalid about the field
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field %q: %s", e.Field, e.Message)
}

// ConfigError represents a provider configuration error.
// This occurs when the provider configuration is invalid.
type ConfigError struct {
	// Provider is the name of the provider with invalid configuration
	Provider string

	// Field is the configuration field that is invalid
	Field string

	// Message describes the configuration error
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return fmt.Sprintf("provider %q configuration error for field %q: %s",
		e.Provider, e.Field, e.Message)
}
