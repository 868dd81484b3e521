package config

import (
	"strings"
	"testing"
	"time"
)

func boolPtr(b bool) *bool { return &b }

func TestValidate_DefaultConfig(t *testing.T) {
	if err := Validate(NewDefaultConfig()); err != nil {
		t.Errorf("expected default config to pass validation, got error: %v", err)
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := &Config{}

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation to fail")
	}

	validationErr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(validationErr.Errors) < 2 {
		t.Errorf("expected multiple errors, got %d", len(validationErr.Errors))
	}
	if !strings.Contains(validationErr.Error(), "validation failed with") {
		t.Errorf("error message should mention multiple errors: %s", validationErr.Error())
	}
}

func TestValidate_Fields(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		errorField string
	}{
		{
			name:       "empty listen address",
			mutate:     func(c *Config) { c.Server.ListenAddress = "" },
			errorField: "server.listen_address",
		},
		{
			name:       "negative body limit",
			mutate:     func(c *Config) { c.Server.MaxBodyBytes = -1 },
			errorField: "server.max_body_bytes",
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.Server.CORS.Enabled = true
				c.Server.CORS.AllowedOrigins = []string{"*"}
			},
			errorField: "server.cors.allowed_origins",
		},
		{
			name: "TLS without certificate",
			mutate: func(c *Config) {
				c.Server.TLS.Enabled = true
				c.Server.TLS.KeyFile = "server.key"
			},
			errorField: "server.tls.cert_file",
		},
		{
			name: "TLS 1.1",
			mutate: func(c *Config) {
				c.Server.TLS = TLSConfig{Enabled: true, CertFile: "server.crt", KeyFile: "server.key", MinVersion: "1.1"}
			},
			errorField: "server.tls.min_version",
		},
		{
			name:       "negative secret cache TTL",
			mutate:     func(c *Config) { c.Secrets.CacheTTL = -time.Second },
			errorField: "secrets.cache_ttl",
		},
		{
			name:       "primary base URL scheme",
			mutate:     func(c *Config) { c.Providers.Primary.BaseURL = "ftp://api.openai.com" },
			errorField: "providers.primary.base_url",
		},
		{
			name:       "fallback model missing",
			mutate:     func(c *Config) { c.Providers.Fallback.Model = "" },
			errorField: "providers.fallback.model",
		},
		{
			name:       "retries above limit",
			mutate:     func(c *Config) { c.Providers.Primary.MaxRetries = 6 },
			errorField: "providers.primary.max_retries",
		},
		{
			name:       "negative retries",
			mutate:     func(c *Config) { c.Providers.Fallback.MaxRetries = -1 },
			errorField: "providers.fallback.max_retries",
		},
		{
			name:       "temperature above range",
			mutate:     func(c *Config) { c.Providers.Primary.Temperature = 2.5 },
			errorField: "providers.primary.temperature",
		},
		{
			name:       "negative max tokens",
			mutate:     func(c *Config) { c.Providers.Fallback.MaxTokens = -10 },
			errorField: "providers.fallback.max_tokens",
		},
		{
			name:       "duplicate provider names",
			mutate:     func(c *Config) { c.Providers.Fallback.Name = c.Providers.Primary.Name },
			errorField: "providers.fallback.name",
		},
		{
			name:       "relative cookie path",
			mutate:     func(c *Config) { c.Session.CookiePath = "chat" },
			errorField: "session.cookie_path",
		},
		{
			name:       "zero transcript ttl",
			mutate:     func(c *Config) { c.Session.TranscriptTTL = 0 },
			errorField: "session.transcript_ttl",
		},
		{
			name:       "unknown same site",
			mutate:     func(c *Config) { c.Session.SameSite = "sometimes" },
			errorField: "session.same_site",
		},
		{
			name:       "same site none without secure",
			mutate:     func(c *Config) { c.Session.SameSite = "none" },
			errorField: "session.same_site",
		},
		{
			name:       "cookie budget too large",
			mutate:     func(c *Config) { c.Session.MaxCookieBytes = 8192 },
			errorField: "session.max_cookie_bytes",
		},
		{
			name:       "invalid log level",
			mutate:     func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			errorField: "telemetry.logging.level",
		},
		{
			name:       "invalid log format",
			mutate:     func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			errorField: "telemetry.logging.format",
		},
		{
			name: "invalid redact pattern",
			mutate: func(c *Config) {
				c.Telemetry.Logging.RedactPatterns = []RedactPattern{{Name: "bad", Pattern: "("}}
			},
			errorField: "telemetry.logging.redact_patterns[0].pattern",
		},
		{
			name:       "relative metrics path",
			mutate:     func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			errorField: "telemetry.metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}

			validationErr := err.(ValidationError)
			found := false
			for _, fe := range validationErr.Errors {
				if fe.Field == tt.errorField {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected error for field %q, got %v", tt.errorField, validationErr.Errors)
			}
		})
	}
}

func TestValidate_AcceptedVariants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{
			name:   "empty API keys",
			mutate: func(c *Config) { c.Providers.Primary.APIKey = ""; c.Providers.Fallback.APIKey = "" },
		},
		{
			name:   "same site none with secure",
			mutate: func(c *Config) { c.Session.SameSite = "None"; c.Session.Secure = true },
		},
		{
			name: "wildcard origin without credentials",
			mutate: func(c *Config) {
				c.Server.CORS.Enabled = true
				c.Server.CORS.AllowedOrigins = []string{"*"}
				c.Server.CORS.AllowCredentials = boolPtr(false)
			},
		},
		{
			name: "TLS disabled ignores files",
			mutate: func(c *Config) {
				c.Server.TLS.MinVersion = ""
			},
		},
		{
			name: "metrics disabled ignores path",
			mutate: func(c *Config) {
				c.Telemetry.Metrics.Enabled = boolPtr(false)
				c.Telemetry.Metrics.Path = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			if err := Validate(cfg); err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
		})
	}
}

func TestFieldError_Error(t *testing.T) {
	err := FieldError{Field: "server.listen_address", Message: "listen address is required"}
	expected := "server.listen_address: listen address is required"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestValidationError_SingleError(t *testing.T) {
	err := ValidationError{Errors: []FieldError{{Field: "session.cookie_path", Message: "cookie path must start with /"}}}
	expected := "configuration validation failed: session.cookie_path: cookie path must start with /"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}
