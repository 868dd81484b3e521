package types

import (
	"fmt"
	"strings"
)

// ChatRequest is one chat turn or a reset, as sent by the browser.
type ChatRequest struct {
	// Message is the user's new turn. Required unless NewChat is set.
	Message string `json:"message"`

	// NewChat resets the session; every other field is ignored.
	NewChat bool `json:"newChat,omitempty"`

	// UserName seeds the system preamble of the first turn.
	UserName string `json:"userName,omitempty"`

	// UserProblem seeds the system preamble of the first turn.
	UserProblem string `json:"userProblem,omitempty"`
}

// Validate checks the request. Resets are always valid.
func (r *ChatRequest) Validate() error {
	if r.NewChat {
		return nil
	}
	if strings.TrimSpace(r.Message) == "" {
		return &ValidationError{Field: "message", Message: "message is required"}
	}
	return nil
}

// ValidationError represents a request validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}
