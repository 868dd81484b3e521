package proxy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"mercator-hq/helpdesk/pkg/fallback"
	"mercator-hq/helpdesk/pkg/proxy/types"
)

const internalErrorMessage = "An internal error occurred. Please try again later."

// FormatChatResponse turns an orchestrator result into the /chat body. A
// fallback reply carries the switch notice as specialMessage.
func FormatChatResponse(result *fallback.Result) *types.ChatResponse {
	resp := &types.ChatResponse{Response: result.Text}
	if result.UsedFallback {
		notice := SwitchNotice(result.PrimaryError, result.ProviderLabel)
		resp.SpecialMessage = &notice
	}
	return resp
}

// SwitchNotice tells the customer the primary failed and who took over.
func SwitchNotice(primaryErr error, fallbackLabel string) string {
	return fmt.Sprintf("Error: %v - Switching to %s", primaryErr, fallbackLabel)
}

// HandleError maps a chat failure to its response. Refused requests keep
// their status and message. When both providers failed the combined error
// is shown, since that is what the customer sees in the widget. Anything
// else is a generic 500.
func HandleError(err error) *types.ErrorResponse {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.response()
	}

	var both *fallback.BothProvidersFailedError
	if errors.As(err, &both) {
		return types.NewServerError(both.Error())
	}
	return types.NewServerError(internalErrorMessage)
}

// WriteJSONResponse writes data as an uncacheable JSON response.
func WriteJSONResponse(w http.ResponseWriter, status int, data any) error {
	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON response: %w", err)
	}
	return nil
}

// WriteErrorResponse writes errResp with its status code.
func WriteErrorResponse(w http.ResponseWriter, errResp *types.ErrorResponse) error {
	return WriteJSONResponse(w, errResp.HTTPStatusCode(), errResp)
}
