package handlers

import (
	"net/http"
	"time"

	"mercator-hq/helpdesk/pkg/providers"
	"mercator-hq/helpdesk/pkg/proxy"
	"mercator-hq/helpdesk/pkg/proxy/types"
)

// HealthHandler handles health check requests for liveness probes.
type HealthHandler struct{}

// NewHealthHandler creates a new health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// ServeHTTP implements http.Handler for liveness checks.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError(r.Method))
		return
	}

	proxy.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

// ProviderSource returns the providers currently in use, primary first.
type ProviderSource func() []providers.Provider

// HealthRecorder receives provider health observations.
type HealthRecorder interface {
	UpdateProviderHealth(provider string, healthy bool)
}

// ProviderHealthHandler reports the health counters of each provider.
// Health is informational; an unhealthy provider is still tried.
type ProviderHealthHandler struct {
	source   ProviderSource
	recorder HealthRecorder
}

// NewProviderHealthHandler creates a provider health handler. recorder may be nil.
func NewProviderHealthHandler(source ProviderSource, recorder HealthRecorder) *ProviderHealthHandler {
	return &ProviderHealthHandler{source: source, recorder: recorder}
}

// providerStatus is the JSON form of one provider's health.
type providerStatus struct {
	Name                string  `json:"name"`
	DisplayName         string  `json:"display_name"`
	Role                string  `json:"role"`
	Healthy             bool    `json:"healthy"`
	ConsecutiveFailures int     `json:"consecutive_failures"`
	TotalRequests       int64   `json:"total_requests"`
	FailedRequests      int64   `json:"failed_requests"`
	LastCheck           *int64  `json:"last_check"`
	LastSuccess         *int64  `json:"last_success"`
	LastError           *string `json:"last_error"`
}

// ServeHTTP implements http.Handler for detailed provider health.
func (h *ProviderHealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError(r.Method))
		return
	}

	var list []providers.Provider
	if h.source != nil {
		list = h.source()
	}

	statuses := make([]providerStatus, 0, len(list))
	healthy := 0
	for i, p := range list {
		health := p.GetHealth()
		cfg := p.GetConfig()

		role := "fallback"
		if i == 0 {
			role = "primary"
		}

		status := providerStatus{
			Name:                p.GetName(),
			DisplayName:         cfg.Label(),
			Role:                role,
			Healthy:             health.IsHealthy,
			ConsecutiveFailures: health.ConsecutiveFailures,
			TotalRequests:       health.TotalRequests,
			FailedRequests:      health.FailedRequests,
			LastCheck:           unixOrNil(health.LastCheck),
			LastSuccess:         unixOrNil(health.LastSuccessfulRequest),
		}
		if health.LastError != nil {
			msg := health.LastError.Error()
			status.LastError = &msg
		}
		if health.IsHealthy {
			healthy++
		}
		if h.recorder != nil {
			h.recorder.UpdateProviderHealth(p.GetName(), health.IsHealthy)
		}

		statuses = append(statuses, status)
	}

	overall := "ok"
	if healthy < len(statuses) {
		overall = "degraded"
	}

	proxy.WriteJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":    overall,
		"providers": statuses,
		"timestamp": time.Now().Unix(),
	})
}

func unixOrNil(t time.Time) *int64 {
	if t.IsZero() {
		return nil
	}
	ts := t.Unix()
	return &ts
}
