package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mercator-hq/helpdesk/pkg/proxy/types"
)

// DefaultMaxRequestBodySize bounds a /chat body when server.max_body_bytes
// is unset.
const DefaultMaxRequestBodySize = 64 * 1024

// RequestError is a /chat body the relay refuses. Status is 400 unless set.
type RequestError struct {
	Status  int
	Param   string
	Message string
}

func (e *RequestError) Error() string { return e.Message }

func (e *RequestError) response() *types.ErrorResponse {
	if e.Status == 0 {
		return types.NewErrorResponse(http.StatusBadRequest, e.Message)
	}
	return types.NewErrorResponse(e.Status, e.Message)
}

// ParseChatRequest reads at most maxBytes of r's body (the default when
// maxBytes <= 0), decodes it and validates it. Refusals are *RequestError.
func ParseChatRequest(w http.ResponseWriter, r *http.Request, maxBytes int64) (*types.ChatRequest, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxRequestBodySize
	}

	var req types.ChatRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, &RequestError{
				Status:  http.StatusRequestEntityTooLarge,
				Param:   "body",
				Message: fmt.Sprintf("request body exceeds maximum size of %d bytes", maxBytes),
			}
		}
		return nil, &RequestError{Param: "body", Message: fmt.Sprintf("invalid JSON: %v", err)}
	}

	if err := req.Validate(); err != nil {
		var invalid *types.ValidationError
		if !errors.As(err, &invalid) {
			return nil, err
		}
		return nil, &RequestError{Param: invalid.Field, Message: invalid.Message}
	}
	return &req, nil
}
