package metrics

import (
	"net/http"
	"time"

	"mercator-hq/helpdesk/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Chat turn outcomes.
const (
	OutcomePrimary  = "primary"
	OutcomeFallback = "fallback"
	OutcomeFailed   = "failed"
	OutcomeReset    = "reset"
	OutcomeInvalid  = "invalid"
)

// Collector owns the relay's Prometheus metrics and the registry they are
// registered with.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	chat     *chatMetrics
	provider *providerMetrics
}

// NewCollector creates a collector and registers every metric with registry.
// A nil registry creates a fresh one that also carries the Go runtime and
// process collectors.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &config.MetricsConfig{}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}
	buckets := cfg.RequestDurationBuckets
	if len(buckets) == 0 {
		buckets = config.DefaultRequestDurationBuckets
	}

	factory := promauto.With(registry)
	return &Collector{
		enabled:  cfg.IsEnabled(),
		registry: registry,
		chat:     newChatMetrics(factory, namespace, buckets),
		provider: newProviderMetrics(factory, namespace, buckets),
	}
}

func (c *Collector) active() bool {
	return c != nil && c.enabled
}

// RecordChatRequest records one handled chat request and its duration.
func (c *Collector) RecordChatRequest(outcome string, duration time.Duration) {
	if !c.active() {
		return
	}

	c.chat.requests.WithLabelValues(outcome).Inc()
	c.chat.duration.Observe(duration.Seconds())
}

// RecordFallbackEscalation records a turn that was handed to the fallback provider.
func (c *Collector) RecordFallbackEscalation() {
	if !c.active() {
		return
	}

	c.chat.escalations.Inc()
}

// RecordTranscriptDecodeError records a conversation cookie that failed to decode.
func (c *Collector) RecordTranscriptDecodeError() {
	if !c.active() {
		return
	}

	c.chat.decodeErrors.Inc()
}

// RecordTrimmedTurns records turns dropped to fit the cookie budget.
func (c *Collector) RecordTrimmedTurns(n int) {
	if !c.active() || n <= 0 {
		return
	}

	c.chat.trimmedTurns.Add(float64(n))
}

// RecordProviderRequest records one logical call to a provider. An empty
// kind means the call succeeded; otherwise it is the provider error kind.
func (c *Collector) RecordProviderRequest(provider string, latency time.Duration, kind string) {
	if !c.active() {
		return
	}

	c.provider.requests.WithLabelValues(provider).Inc()
	c.provider.latency.WithLabelValues(provider).Observe(latency.Seconds())
	if kind != "" {
		c.provider.errors.WithLabelValues(provider, kind).Inc()
	}
}

// UpdateProviderHealth sets the health gauge for a provider.
func (c *Collector) UpdateProviderHealth(provider string, healthy bool) {
	if !c.active() {
		return
	}

	v := 0.0
	if healthy {
		v = 1
	}
	c.provider.health.WithLabelValues(provider).Set(v)
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c.active()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format. Scrape
// errors are counted in promhttp_metric_handler_errors_total on the same
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		Registry:          c.registry,
		ErrorHandling:     promhttp.ContinueOnError,
		EnableOpenMetrics: true,
	})
}
