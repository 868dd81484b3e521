package config

import "time"

// Config is the root configuration structure for the helpdesk relay.
// It contains the HTTP server settings, the primary and fallback provider
// credentials, cookie/session settings, and telemetry settings.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and request limits.
	Server ServerConfig `yaml:"server"`

	// Providers contains the primary and fallback LLM provider settings.
	Providers ProvidersConfig `yaml:"providers"`

	// Session contains cookie settings for the session token and the
	// client-held conversation transcript.
	Session SessionConfig `yaml:"session"`

	// Secrets configures where ${secret:name} references are resolved from.
	Secrets SecretsConfig `yaml:"secrets"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port for the server to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:3000", "0.0.0.0:3000").
	// Default: "127.0.0.1:3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. It also bounds the whole handler (both provider calls).
	// Default: 45s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits the size of request headers (cookies included).
	// Default: 65536
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes limits the size of a chat request body.
	// Default: 65536
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// TLS enables HTTPS on the listener.
	TLS TLSConfig `yaml:"tls"`
}

// TLSConfig contains HTTPS settings for the server.
type TLSConfig struct {
	// Enabled serves HTTPS instead of plain HTTP.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate chain.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`

	// MinVersion is the minimum TLS version to accept ("1.2" or "1.3").
	// Default: "1.3"
	MinVersion string `yaml:"min_version"`

	// CipherSuites restricts the TLS 1.2 cipher suites. Empty uses Go's defaults.
	CipherSuites []string `yaml:"cipher_suites"`

	// ReloadInterval is how often the certificate files are checked for
	// changes, so renewed certificates are picked up without a restart.
	// Default: 5m
	ReloadInterval time.Duration `yaml:"reload_interval"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: false (the UI is normally served from the same origin)
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Wildcards cannot be combined with credentials, so cookie-based
	// sessions need explicit origins.
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods.
	// Default: ["POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed request headers.
	// Default: ["Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache lifetime in seconds.
	// Default: 600
	MaxAge int `yaml:"max_age"`

	// AllowCredentials allows cookies on cross-origin requests.
	// Default: true
	AllowCredentials *bool `yaml:"allow_credentials"`
}

// CredentialsAllowed reports whether credentialed CORS requests are allowed,
// treating an unset value as true since cookies carry the session.
func (c CORSConfig) CredentialsAllowed() bool {
	return c.AllowCredentials == nil || *c.AllowCredentials
}

// ProvidersConfig holds the two upstream providers. The primary provider is
// always tried first; the fallback is called at most once per turn, only
// after the primary failed.
type ProvidersConfig struct {
	// Primary is the OpenAI-compatible chat-completion provider.
	Primary ProviderConfig `yaml:"primary"`

	// Fallback is the Gemini generateContent provider.
	Fallback ProviderConfig `yaml:"fallback"`
}

// ProviderConfig contains configuration for a single LLM provider.
type ProviderConfig struct {
	// Name identifies the provider in logs and metrics.
	// Default: "openai" (primary), "gemini" (fallback)
	Name string `yaml:"name"`

	// DisplayName is the human-readable name used in the notice returned to
	// the client when this provider takes over.
	// Default: "OpenAI" (primary), "Gemini" (fallback)
	DisplayName string `yaml:"display_name"`

	// BaseURL is the base URL for the provider's API endpoint.
	// Default: "https://api.openai.com/v1" (primary),
	// "https://generativelanguage.googleapis.com/v1beta" (fallback)
	BaseURL string `yaml:"base_url"`

	// APIKey is the authentication key for the provider.
	// Supports ${VAR} expansion and ${secret:name} references; falls back to
	// OPENAI_API_KEY / GEMINI_API_KEY.
	APIKey string `yaml:"api_key"`

	// Model is the model identifier sent upstream.
	// Default: "gpt-3.5-turbo" (primary), "gemini-pro" (fallback)
	Model string `yaml:"model"`

	// Timeout bounds a single request to this provider. A timeout is
	// reported as an unreachable provider.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of extra attempts for transient failures
	// (network errors, 5xx) against this same provider.
	// Default: 0
	MaxRetries int `yaml:"max_retries"`

	// Temperature is the sampling temperature sent with every request.
	// Zero leaves the upstream default in place.
	Temperature float64 `yaml:"temperature"`

	// MaxTokens caps the length of each reply. Zero leaves the upstream
	// default in place.
	MaxTokens int `yaml:"max_tokens"`
}

// SessionConfig contains cookie settings.
type SessionConfig struct {
	// CookiePath is the path attribute of every cookie the server sets.
	// Default: "/"
	CookiePath string `yaml:"cookie_path"`

	// TranscriptTTL is the lifetime of the conversation cookie.
	// Default: 24h
	TranscriptTTL time.Duration `yaml:"transcript_ttl"`

	// Secure marks cookies as HTTPS-only.
	// Default: false
	Secure bool `yaml:"secure"`

	// SameSite is the SameSite attribute: "lax", "strict", "none" or empty.
	// Default: "lax"
	SameSite string `yaml:"same_site"`

	// MaxCookieBytes is the largest encoded transcript the server will emit.
	// Older turns are dropped until the transcript fits.
	// Default: 3800
	MaxCookieBytes int `yaml:"max_cookie_bytes"`
}

// SecretsConfig contains the sources consulted for ${secret:name} references.
// The environment is always consulted first, then the secrets directory.
type SecretsConfig struct {
	// EnvPrefix namespaces secret environment variables. The secret
	// "openai-api-key" is read from <EnvPrefix>OPENAI_API_KEY.
	// Default: "HELPDESK_SECRET_"
	EnvPrefix string `yaml:"env_prefix"`

	// Dir is a directory holding one file per secret, as mounted by
	// Kubernetes. Files must be mode 0600 or 0400. Empty disables it.
	Dir string `yaml:"dir"`

	// CacheTTL is how long a resolved secret is reused.
	// Default: 5m
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// TelemetryConfig contains configuration for observability.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`

	// RedactSecrets scrubs API keys, bearer tokens and emails from logs.
	// Default: true
	RedactSecrets *bool `yaml:"redact_secrets"`

	// RedactPatterns contains additional redaction patterns.
	RedactPatterns []RedactPattern `yaml:"redact_patterns"`
}

// RedactPattern defines a custom log redaction pattern.
type RedactPattern struct {
	// Name is a descriptive name for the pattern.
	Name string `yaml:"name"`

	// Pattern is the regular expression to match.
	Pattern string `yaml:"pattern"`

	// Replacement is the string to replace matches with.
	Replacement string `yaml:"replacement"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "helpdesk"
	Namespace string `yaml:"namespace"`

	// RequestDurationBuckets defines histogram buckets in seconds.
	// Default: [0.1, 0.25, 0.5, 1, 2, 5, 10, 30]
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}

// IsEnabled reports whether metrics are enabled, treating an unset value as true.
func (m MetricsConfig) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// ShouldRedact reports whether log redaction is on, treating an unset value as true.
func (l LoggingConfig) ShouldRedact() bool {
	return l.RedactSecrets == nil || *l.RedactSecrets
}
