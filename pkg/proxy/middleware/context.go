package middleware

import (
	"context"
	"net/http"
	"sync"
)

type contextKey string

// requestLogKey holds the *requestLog of the current request.
const requestLogKey contextKey = "request_log"

// requestLog collects attributes handlers want on the request completion line.
type requestLog struct {
	mu    sync.Mutex
	attrs []any
}

// Annotate adds key/value pairs to the request completion log line written
// by LoggingMiddleware. Outside that middleware it does nothing.
func Annotate(ctx context.Context, args ...any) {
	rl, ok := ctx.Value(requestLogKey).(*requestLog)
	if !ok {
		return
	}
	rl.mu.Lock()
	rl.attrs = append(rl.attrs, args...)
	rl.mu.Unlock()
}

func (rl *requestLog) snapshot() []any {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return append([]any(nil), rl.attrs...)
}

// Chain applies middleware so that the first one listed is the outermost.
func Chain(h http.Handler, middleware ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middleware) - 1; i >= 0; i-- {
		h = middleware[i](h)
	}
	return h
}
