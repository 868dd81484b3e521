package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// maxProviderRetries keeps per-provider retries bounded.
const maxProviderRetries = 5

// maxTemperature is the upper bound both upstream APIs accept.
const maxTemperature = 2.0

// Cookie limits. Browsers cap a cookie (name + value + attributes) near 4096 bytes.
const (
	minCookieBytes = 512
	maxCookieBytes = 4000
)

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateProvider("providers.primary", &cfg.Providers.Primary)...)
	errs = append(errs, validateProvider("providers.fallback", &cfg.Providers.Fallback)...)

	if cfg.Providers.Primary.Name != "" && cfg.Providers.Primary.Name == cfg.Providers.Fallback.Name {
		errs = append(errs, FieldError{
			Field:   "providers.fallback.name",
			Message: "fallback provider must have a different name than the primary",
		})
	}

	errs = append(errs, validateSession(&cfg.Session)...)
	errs = append(errs, validateSecrets(&cfg.Secrets)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.shutdown_timeout",
			Message: "shutdown timeout must be positive",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_body_bytes",
			Message: "max body bytes must be non-negative",
		})
	}

	if cfg.CORS.Enabled && cfg.CORS.CredentialsAllowed() {
		for _, origin := range cfg.CORS.AllowedOrigins {
			if origin == "*" {
				errs = append(errs, FieldError{
					Field:   "server.cors.allowed_origins",
					Message: "wildcard origin cannot be combined with allow_credentials",
				})
				break
			}
		}
	}

	errs = append(errs, validateTLS(&cfg.TLS)...)

	return errs
}

// validateTLS validates HTTPS settings. Certificate files are checked when
// the server loads them.
func validateTLS(cfg *TLSConfig) []FieldError {
	if !cfg.Enabled {
		return nil
	}

	var errs []FieldError
	if cfg.CertFile == "" {
		errs = append(errs, FieldError{
			Field:   "server.tls.cert_file",
			Message: "certificate file is required when TLS is enabled",
		})
	}
	if cfg.KeyFile == "" {
		errs = append(errs, FieldError{
			Field:   "server.tls.key_file",
			Message: "key file is required when TLS is enabled",
		})
	}
	if cfg.MinVersion != "1.2" && cfg.MinVersion != "1.3" {
		errs = append(errs, FieldError{
			Field:   "server.tls.min_version",
			Message: fmt.Sprintf("unsupported TLS version %q (supported: 1.2, 1.3)", cfg.MinVersion),
		})
	}
	if cfg.ReloadInterval < 0 {
		errs = append(errs, FieldError{
			Field:   "server.tls.reload_interval",
			Message: "reload interval must be positive",
		})
	}
	return errs
}

// validateSecrets validates secret source settings.
func validateSecrets(cfg *SecretsConfig) []FieldError {
	var errs []FieldError
	if cfg.CacheTTL < 0 {
		errs = append(errs, FieldError{
			Field:   "secrets.cache_ttl",
			Message: "cache TTL must be non-negative",
		})
	}
	if strings.Contains(cfg.EnvPrefix, "=") {
		errs = append(errs, FieldError{
			Field:   "secrets.env_prefix",
			Message: "environment prefix must not contain '='",
		})
	}
	return errs
}

// validateProvider validates a single provider configuration.
func validateProvider(prefix string, provider *ProviderConfig) []FieldError {
	var errs []FieldError

	if provider.Name == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".name",
			Message: "provider name is required",
		})
	}

	if provider.BaseURL == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".base_url",
			Message: "base URL is required",
		})
	} else if u, err := url.Parse(provider.BaseURL); err != nil {
		errs = append(errs, FieldError{
			Field:   prefix + ".base_url",
			Message: fmt.Sprintf("invalid URL format: %v", err),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, FieldError{
			Field:   prefix + ".base_url",
			Message: "base URL must use http or https",
		})
	}

	// An empty API key is allowed here; the upstream rejects the call and the
	// relay escalates or fails the turn.

	if provider.Model == "" {
		errs = append(errs, FieldError{
			Field:   prefix + ".model",
			Message: "model is required",
		})
	}

	if provider.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".timeout",
			Message: "timeout must be positive",
		})
	}

	if provider.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".max_retries",
			Message: "max retries must be non-negative",
		})
	}
	if provider.MaxRetries > maxProviderRetries {
		errs = append(errs, FieldError{
			Field:   prefix + ".max_retries",
			Message: fmt.Sprintf("max retries exceeds limit (%d)", maxProviderRetries),
		})
	}

	if provider.Temperature < 0 || provider.Temperature > maxTemperature {
		errs = append(errs, FieldError{
			Field:   prefix + ".temperature",
			Message: fmt.Sprintf("temperature must be between 0 and %g", maxTemperature),
		})
	}
	if provider.MaxTokens < 0 {
		errs = append(errs, FieldError{
			Field:   prefix + ".max_tokens",
			Message: "max tokens must be non-negative",
		})
	}

	return errs
}

// validateSession validates cookie settings.
func validateSession(cfg *SessionConfig) []FieldError {
	var errs []FieldError

	if !strings.HasPrefix(cfg.CookiePath, "/") {
		errs = append(errs, FieldError{
			Field:   "session.cookie_path",
			Message: "cookie path must start with /",
		})
	}

	if cfg.TranscriptTTL <= 0 {
		errs = append(errs, FieldError{
			Field:   "session.transcript_ttl",
			Message: "transcript TTL must be positive",
		})
	}

	switch strings.ToLower(cfg.SameSite) {
	case "", "lax", "strict", "none":
	default:
		errs = append(errs, FieldError{
			Field:   "session.same_site",
			Message: fmt.Sprintf("invalid SameSite mode %q (must be lax, strict, or none)", cfg.SameSite),
		})
	}
	if strings.EqualFold(cfg.SameSite, "none") && !cfg.Secure {
		errs = append(errs, FieldError{
			Field:   "session.same_site",
			Message: "SameSite=None requires secure cookies",
		})
	}

	if cfg.MaxCookieBytes < minCookieBytes || cfg.MaxCookieBytes > maxCookieBytes {
		errs = append(errs, FieldError{
			Field:   "session.max_cookie_bytes",
			Message: fmt.Sprintf("max cookie bytes must be between %d and %d", minCookieBytes, maxCookieBytes),
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	for i, p := range cfg.Logging.RedactPatterns {
		if _, err := regexp.Compile(p.Pattern); err != nil {
			errs = append(errs, FieldError{
				Field:   fmt.Sprintf("telemetry.logging.redact_patterns[%d].pattern", i),
				Message: fmt.Sprintf("invalid regular expression: %v", err),
			})
		}
	}

	if cfg.Metrics.IsEnabled() && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}
