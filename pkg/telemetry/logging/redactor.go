package logging

import (
	"log/slog"
	"regexp"
	"strings"

	"mercator-hq/helpdesk/pkg/config"
)

// Redactor scrubs credentials and contact details from log values.
type Redactor struct {
	patterns []*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternQueryKey    = "query_key"
	PatternEmail       = "email"
)

// defaultPatterns run in order; bearer tokens go before API keys so the
// "Bearer" prefix survives.
var defaultPatterns = []struct {
	name        string
	regex       string
	replacement string
}{
	{PatternBearerToken, `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`, "Bearer ***"},
	{PatternAPIKey, `sk-[a-zA-Z0-9_\-]{8,}`, "sk-***"},
	{PatternQueryKey, `([?&](?:key|api_key)=)[^&\s"]+`, "${1}***"},
	{PatternEmail, `[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`, "***@***"},
}

// sensitiveKeys are attribute keys whose values are masked outright.
var sensitiveKeys = []string{
	"password", "secret", "access_token", "refresh_token", "api_key", "apikey", "authorization", "cookie",
}

// NewRedactor creates a Redactor with the built-in patterns followed by
// customPatterns. Invalid custom patterns are skipped; config validation
// reports them.
func NewRedactor(customPatterns []config.RedactPattern) *Redactor {
	r := &Redactor{}

	for _, p := range defaultPatterns {
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		})
	}

	for _, p := range customPatterns {
		regex, err := regexp.Compile(p.Pattern)
		if err != nil {
			continue
		}
		replacement := p.Replacement
		if replacement == "" {
			replacement = "***"
		}
		r.patterns = append(r.patterns, &redactPattern{
			name:        p.Name,
			regex:       regex,
			replacement: replacement,
		})
	}

	return r
}

// RedactString redacts secrets from a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	for _, pattern := range r.patterns {
		value = pattern.regex.ReplaceAllString(value, pattern.replacement)
	}
	return value
}

// RedactAttr returns a copy of attr with secrets removed. Groups are
// processed recursively and errors are flattened to redacted strings.
func (r *Redactor) RedactAttr(attr slog.Attr) slog.Attr {
	if isSensitiveKey(attr.Key) {
		return slog.String(attr.Key, maskValue(attr.Value.String()))
	}

	v := attr.Value.Resolve()
	switch v.Kind() {
	case slog.KindString:
		return slog.String(attr.Key, r.RedactString(v.String()))

	case slog.KindGroup:
		group := v.Group()
		redacted := make([]any, len(group))
		for i, a := range group {
			redacted[i] = r.RedactAttr(a)
		}
		return slog.Group(attr.Key, redacted...)

	case slog.KindAny:
		if err, ok := v.Any().(error); ok && err != nil {
			return slog.String(attr.Key, r.RedactString(err.Error()))
		}
	}

	return slog.Attr{Key: attr.Key, Value: v}
}

// isSensitiveKey checks if a key name indicates sensitive data.
func isSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)
	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}
	return false
}

// maskValue keeps a short prefix of a sensitive value for correlation.
func maskValue(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "***"
	}
	return v[:4] + "***"
}
