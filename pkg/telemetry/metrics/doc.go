// Package metrics provides Prometheus metrics collection for the helpdesk relay.
//
// # Metrics
//
// Chat metrics:
//   - helpdesk_chat_requests_total{outcome}: turns by outcome (primary,
//     fallback, failed, reset, invalid)
//   - helpdesk_chat_request_duration_seconds: end-to-end turn latency
//   - helpdesk_fallback_escalations_total: turns answered by the fallback
//   - helpdesk_transcript_decode_errors_total: conversation cookies that
//     could not be decoded
//   - helpdesk_transcript_trimmed_turns_total: turns dropped to fit the
//     cookie budget
//
// Provider metrics:
//   - helpdesk_provider_requests_total{provider}
//   - helpdesk_provider_errors_total{provider,kind}
//   - helpdesk_provider_latency_seconds{provider}
//   - helpdesk_provider_health{provider}: 1 healthy, 0 unhealthy
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
//	collector.RecordChatRequest(metrics.OutcomeFallback, time.Since(start))
//
// All recording methods are safe on a nil *Collector, so components can be
// built without metrics in tests.
package metrics
