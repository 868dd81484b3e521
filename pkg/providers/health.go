package providers

import (
	"log/slog"
	"time"
)

// unhealthyThreshold consecutive failures flip a provider to unhealthy.
const unhealthyThreshold = 3

func (h *ProviderHealth) succeed(now time.Time) (recovered bool) {
	recovered = !h.IsHealthy
	h.IsHealthy = true
	h.LastCheck = now
	h.LastSuccessfulRequest = now
	h.ConsecutiveFailures = 0
	h.LastError = nil
	return recovered
}

func (h *ProviderHealth) fail(now time.Time, err error) (tripped bool) {
	h.FailedRequests++
	h.LastCheck = now
	h.LastError = err
	h.ConsecutiveFailures++
	if h.IsHealthy && h.ConsecutiveFailures >= unhealthyThreshold {
		h.IsHealthy = false
		return true
	}
	return false
}

func (p *HTTPProvider) IsHealthy() bool {
	return p.GetHealth().IsHealthy
}

// GetHealth returns a snapshot of the recorded outcomes.
func (p *HTTPProvider) GetHealth() ProviderHealth {
	p.healthMu.RLock()
	defer p.healthMu.RUnlock()
	return p.health
}

// RecordFailure counts a failure found after the transport reported success,
// such as a 2xx body without a reply. The request itself is already counted.
func (p *HTTPProvider) RecordFailure(err error) {
	p.healthMu.Lock()
	tripped := p.health.fail(time.Now(), err)
	failures := p.health.ConsecutiveFailures
	p.healthMu.Unlock()

	if tripped {
		p.logUnhealthy(failures, err)
	}
}

// recordOutcome counts one logical request; err is nil on success.
func (p *HTTPProvider) recordOutcome(err *ProviderError) {
	now := time.Now()

	p.healthMu.Lock()
	p.health.TotalRequests++
	failures := p.health.ConsecutiveFailures
	var changed bool
	if err == nil {
		changed = p.health.succeed(now)
	} else {
		changed = p.health.fail(now, err)
		failures = p.health.ConsecutiveFailures
	}
	p.healthMu.Unlock()

	switch {
	case !changed:
	case err == nil:
		slog.Info("provider marked healthy", "provider", p.config.Name, "previous_failures", failures)
	default:
		p.logUnhealthy(failures, err)
	}
}

func (p *HTTPProvider) logUnhealthy(failures int, err error) {
	slog.Warn("provider marked unhealthy",
		"provider", p.config.Name,
		"consecutive_failures", failures,
		"error", err,
	)
}
