package logging

import (
	"context"
	"log/slog"
)

// scope holds the request-scoped values the handler adds to every record
// logged with a context. Each With* call stores a modified copy.
type scope struct {
	requestID string
	sessionID string
	provider  string
}

type scopeKey struct{}

func scopeFrom(ctx context.Context) scope {
	if ctx == nil {
		return scope{}
	}
	s, _ := ctx.Value(scopeKey{}).(scope)
	return s
}

func withScope(ctx context.Context, edit func(*scope)) context.Context {
	s := scopeFrom(ctx)
	edit(&s)
	return context.WithValue(ctx, scopeKey{}, s)
}

// WithRequestID tags ctx with the HTTP request ID.
func WithRequestID(ctx context.Context, id string) context.Context {
	return withScope(ctx, func(s *scope) { s.requestID = id })
}

// WithSessionID tags ctx with the chat session token.
func WithSessionID(ctx context.Context, token string) context.Context {
	return withScope(ctx, func(s *scope) { s.sessionID = token })
}

// WithProvider tags ctx with the provider being called.
func WithProvider(ctx context.Context, name string) context.Context {
	return withScope(ctx, func(s *scope) { s.provider = name })
}

func GetRequestID(ctx context.Context) string { return scopeFrom(ctx).requestID }

func GetSessionID(ctx context.Context) string { return scopeFrom(ctx).sessionID }

func GetProvider(ctx context.Context) string { return scopeFrom(ctx).provider }

// attrs returns the non-empty values as log attributes.
func (s scope) attrs() []slog.Attr {
	var out []slog.Attr
	for _, f := range [...]struct{ key, value string }{
		{"request_id", s.requestID},
		{"session_id", s.sessionID},
		{"provider", s.provider},
	} {
		if f.value != "" {
			out = append(out, slog.String(f.key, f.value))
		}
	}
	return out
}
