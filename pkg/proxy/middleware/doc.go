// Package middleware provides HTTP middleware for cross-cutting concerns.
//
// # Middleware Chain
//
//	handler = Recovery(RequestID(Logging(CORS(Timeout(handler)))))
//
// Order (innermost to outermost):
//  1. Timeout: bound the request context so provider calls give up in time
//  2. CORS: add Cross-Origin Resource Sharing headers, answer preflights
//  3. Logging: log method, path, status and latency
//  4. RequestID: accept or mint X-Request-ID and put it in the context
//  5. Recovery: turn panics into a 500 JSON error
//
// Chain composes them in that order.
//
// # Request ID
//
// The request ID is stored with logging.WithRequestID, so every log record
// written with a *Context slog method carries it:
//
//	X-Request-ID: 550e8400-e29b-41d4-a716-446655440000
//
// # Timeout
//
// TimeoutMiddleware only sets a context deadline. Provider calls observe it
// and fail as unreachable, so the chat handler still writes the response
// itself and no second goroutine ever touches the ResponseWriter.
package middleware
