// Package providers implements the abstraction layer for upstream LLM providers.
//
// # Overview
//
// The relay talks to two providers: an OpenAI-compatible chat-completion API
// (package openai) and Google's Gemini generateContent API (package gemini).
// Both implement the Provider interface and embed HTTPProvider, which owns the
// HTTP client, bounded retry, error classification and health tracking.
//
// # Errors
//
// Every failed call returns a *ProviderError with one of three kinds:
//
//   - KindUnreachable: the request never produced a response (network
//     failure, timeout, cancelled context)
//   - KindUpstreamRejected: the provider answered with a non-2xx status; the
//     upstream error.message is extracted into Message when present
//   - KindMalformedResponse: a 2xx response without a usable reply
//
// Use KindOf or errors.As to inspect them:
//
//	var perr *providers.ProviderError
//	if errors.As(err, &perr) && perr.Kind == providers.KindUpstreamRejected {
//	    log.Printf("status %d: %s", perr.StatusCode, perr.Message)
//	}
//
// # Retries
//
// Retries are off by default (MaxRetries 0). When enabled, only transport
// errors and 5xx responses are retried, with exponential backoff starting at
// one second and capped at eight.
//
// # Health
//
// Each provider counts requests and consecutive failures. Three consecutive
// failures mark it unhealthy; the next success marks it healthy again. Health
// is reported at /health/providers and as a metric, and never changes which
// provider is called.
package providers
