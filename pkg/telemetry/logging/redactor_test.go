package logging

import (
	"errors"
	"log/slog"
	"strings"
	"testing"

	"mercator-hq/helpdesk/pkg/config"
)

func TestNewRedactor(t *testing.T) {
	redactor := NewRedactor(nil)
	if len(redactor.patterns) != len(defaultPatterns) {
		t.Errorf("patterns = %d, want %d", len(redactor.patterns), len(defaultPatterns))
	}

	custom := []config.RedactPattern{
		{Name: "ticket", Pattern: `TICKET-\d+`},
		{Name: "broken", Pattern: `[unclosed`},
	}
	redactor = NewRedactor(custom)
	if len(redactor.patterns) != len(defaultPatterns)+1 {
		t.Errorf("patterns = %d, want %d (invalid pattern skipped)", len(redactor.patterns), len(defaultPatterns)+1)
	}
}

func TestRedactor_RedactString(t *testing.T) {
	redactor := NewRedactor([]config.RedactPattern{
		{Name: "ticket", Pattern: `TICKET-\d+`, Replacement: "TICKET-#"},
	})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "openai key",
			input: "using key sk-abcdef1234567890",
			want:  "using key sk-***",
		},
		{
			name:  "bearer token",
			input: "Authorization: Bearer sk-abcdef1234567890",
			want:  "Authorization: Bearer ***",
		},
		{
			name:  "query key",
			input: `Post "https://example.com/models/gemini-pro:generateContent?key=AIzaSecret": EOF`,
			want:  `Post "https://example.com/models/gemini-pro:generateContent?key=***": EOF`,
		},
		{
			name:  "email",
			input: "contact alice@example.com please",
			want:  "contact ***@*** please",
		},
		{
			name:  "custom pattern",
			input: "see TICKET-4521",
			want:  "see TICKET-#",
		},
		{
			name:  "clean string",
			input: "provider marked unhealthy",
			want:  "provider marked unhealthy",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := redactor.RedactString(tt.input); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRedactor_RedactAttr(t *testing.T) {
	redactor := NewRedactor(nil)

	t.Run("sensitive key", func(t *testing.T) {
		got := redactor.RedactAttr(slog.String("api_key", "sk-abcdef1234567890"))
		if got.Value.String() != "sk-a***" {
			t.Errorf("value = %q, want %q", got.Value.String(), "sk-a***")
		}
	})

	t.Run("error value", func(t *testing.T) {
		err := errors.New("upstream said: Bearer sk-abcdef1234567890 is invalid")
		got := redactor.RedactAttr(slog.Any("error", err))
		if strings.Contains(got.Value.String(), "abcdef") {
			t.Errorf("error not redacted: %q", got.Value.String())
		}
	})

	t.Run("group", func(t *testing.T) {
		got := redactor.RedactAttr(slog.Group("upstream",
			slog.String("detail", "mail bob@example.com"),
			slog.Int("status", 401),
		))
		group := got.Value.Group()
		if len(group) != 2 {
			t.Fatalf("group len = %d, want 2", len(group))
		}
		if group[0].Value.String() != "mail ***@***" {
			t.Errorf("detail = %q", group[0].Value.String())
		}
		if group[1].Value.Int64() != 401 {
			t.Errorf("status = %d, want 401", group[1].Value.Int64())
		}
	})

	t.Run("non-string passes through", func(t *testing.T) {
		got := redactor.RedactAttr(slog.Int("attempt", 2))
		if got.Value.Int64() != 2 {
			t.Errorf("attempt = %v", got.Value)
		}
	})
}

func TestIsSensitiveKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"api_key", true},
		{"Authorization", true},
		{"session_cookie", true},
		{"refresh_token", true},
		{"provider", false},
		{"status", false},
	}

	for _, tt := range tests {
		if got := isSensitiveKey(tt.key); got != tt.want {
			t.Errorf("isSensitiveKey(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}
