package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"

	"mercator-hq/helpdesk/pkg/proxy"
	"mercator-hq/helpdesk/pkg/proxy/types"
)

// RecoveryMiddleware turns a handler panic into a generic 500 and logs the
// panic value with its stack. http.ErrAbortHandler keeps propagating so the
// server still drops the connection.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if err, ok := v.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(v)
			}

			slog.ErrorContext(r.Context(), "handler panicked",
				"panic", v,
				"path", r.URL.Path,
				"stack", string(debug.Stack()),
			)
			_ = proxy.WriteErrorResponse(w, types.NewServerError("An internal error occurred. Please try again later."))
		}()

		next.ServeHTTP(w, r)
	})
}
