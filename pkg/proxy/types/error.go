package types

import "net/http"

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a human-readable error message.
	Error string `json:"error"`

	// Status is the HTTP status code; it is not serialized.
	Status int `json:"-"`
}

// NewErrorResponse creates an error response with the given status.
func NewErrorResponse(status int, message string) *ErrorResponse {
	return &ErrorResponse{Error: message, Status: status}
}

// NewMethodNotAllowedError creates a 405 error response.
func NewMethodNotAllowedError(method string) *ErrorResponse {
	return NewErrorResponse(http.StatusMethodNotAllowed, "method "+method+" not allowed")
}

// NewServerError creates a 500 error response.
func NewServerError(message string) *ErrorResponse {
	return NewErrorResponse(http.StatusInternalServerError, message)
}

// HTTPStatusCode returns the status to send, defaulting to 500.
func (e *ErrorResponse) HTTPStatusCode() int {
	if e.Status == 0 {
		return http.StatusInternalServerError
	}
	return e.Status
}
