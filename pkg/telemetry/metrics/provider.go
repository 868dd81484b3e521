package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// providerMetrics covers calls to the upstream LLM APIs. Latency spans a
// whole logical call, retries included. Error kinds are the provider error
// kinds: unreachable, upstream_rejected and malformed_response.
type providerMetrics struct {
	health   *prometheus.GaugeVec
	latency  *prometheus.HistogramVec
	errors   *prometheus.CounterVec
	requests *prometheus.CounterVec
}

func newProviderMetrics(f promauto.Factory, namespace string, buckets []float64) *providerMetrics {
	return &providerMetrics{
		health: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "provider_health",
			Help:      "1 while the provider's recent calls succeed, 0 otherwise.",
		}, []string{"provider"}),
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Provider call latency.",
			Buckets:   buckets,
		}, []string{"provider"}),
		errors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_errors_total",
			Help:      "Failed provider calls, by error kind.",
		}, []string{"provider", "kind"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "Calls made to each provider.",
		}, []string{"provider"}),
	}
}
