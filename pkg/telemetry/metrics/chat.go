package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// chatMetrics covers the /chat endpoint and the conversation cookie.
type chatMetrics struct {
	requests     *prometheus.CounterVec
	duration     prometheus.Histogram
	escalations  prometheus.Counter
	decodeErrors prometheus.Counter
	trimmedTurns prometheus.Counter
}

func newChatMetrics(f promauto.Factory, namespace string, buckets []float64) *chatMetrics {
	return &chatMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat requests handled, by outcome.",
		}, []string{"outcome"}),
		duration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "chat_request_duration_seconds",
			Help:      "Time to answer a chat request, provider calls included.",
			Buckets:   buckets,
		}),
		escalations: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_escalations_total",
			Help:      "Turns handed to the fallback provider.",
		}),
		decodeErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcript_decode_errors_total",
			Help:      "Conversation cookies that could not be decoded.",
		}),
		trimmedTurns: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transcript_trimmed_turns_total",
			Help:      "Transcript turns dropped to fit the cookie size limit.",
		}),
	}
}
