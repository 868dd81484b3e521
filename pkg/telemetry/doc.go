// Package telemetry groups the relay's observability packages.
//
// # Components
//
//   - logging: slog setup with secret redaction and context fields
//   - metrics: Prometheus collector for chat turns and provider calls
package telemetry
