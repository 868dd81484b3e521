package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// ErrRequestTimeout is the context cause once a request outlives its deadline.
var ErrRequestTimeout = errors.New("request deadline exceeded")

// TimeoutMiddleware gives every request a deadline of d, after which its
// context is cancelled with ErrRequestTimeout. In-flight provider calls see
// the cancellation and the handler still writes its own error response.
// A non-positive d disables the deadline.
func TimeoutMiddleware(d time.Duration) func(http.Handler) http.Handler {
	if d <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeoutCause(r.Context(), d, ErrRequestTimeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
