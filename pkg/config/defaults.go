package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:3000"
	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 45 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 15 * time.Second
	DefaultMaxHeaderBytes  = 64 * 1024
	DefaultMaxBodyBytes    = int64(64 * 1024)

	// CORS defaults
	DefaultCORSMaxAge = 600

	// TLS defaults
	DefaultTLSMinVersion     = "1.3"
	DefaultTLSReloadInterval = 5 * time.Minute

	// Primary provider defaults
	DefaultPrimaryName        = "openai"
	DefaultPrimaryDisplayName = "OpenAI"
	DefaultPrimaryBaseURL     = "https://api.openai.com/v1"
	DefaultPrimaryModel       = "gpt-3.5-turbo"

	// Fallback provider defaults
	DefaultFallbackName        = "gemini"
	DefaultFallbackDisplayName = "Gemini"
	DefaultFallbackBaseURL     = "https://generativelanguage.googleapis.com/v1beta"
	DefaultFallbackModel       = "gemini-pro"

	DefaultProviderTimeout = 10 * time.Second

	// Session defaults
	DefaultCookiePath     = "/"
	DefaultTranscriptTTL  = 24 * time.Hour
	DefaultSameSite       = "lax"
	DefaultMaxCookieBytes = 3800

	// Secrets defaults
	DefaultSecretsEnvPrefix = "HELPDESK_SECRET_"
	DefaultSecretsCacheTTL  = 5 * time.Minute

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "helpdesk"
)

// DefaultCORSAllowedMethods is the default list of CORS methods.
var DefaultCORSAllowedMethods = []string{"POST", "OPTIONS"}

// DefaultCORSAllowedHeaders is the default list of CORS request headers.
var DefaultCORSAllowedHeaders = []string{"Content-Type", "X-Request-ID"}

// DefaultRequestDurationBuckets covers LLM round trips from 100ms to 30s.
var DefaultRequestDurationBuckets = []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// NewDefaultConfig returns a configuration with every default applied.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills in zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}
	applyCORSDefaults(&cfg.Server.CORS)
	if cfg.Server.TLS.MinVersion == "" {
		cfg.Server.TLS.MinVersion = DefaultTLSMinVersion
	}
	if cfg.Server.TLS.ReloadInterval == 0 {
		cfg.Server.TLS.ReloadInterval = DefaultTLSReloadInterval
	}

	// Provider defaults
	applyProviderDefaults(&cfg.Providers.Primary,
		DefaultPrimaryName, DefaultPrimaryDisplayName, DefaultPrimaryBaseURL, DefaultPrimaryModel)
	applyProviderDefaults(&cfg.Providers.Fallback,
		DefaultFallbackName, DefaultFallbackDisplayName, DefaultFallbackBaseURL, DefaultFallbackModel)

	// Session defaults
	if cfg.Session.CookiePath == "" {
		cfg.Session.CookiePath = DefaultCookiePath
	}
	if cfg.Session.TranscriptTTL == 0 {
		cfg.Session.TranscriptTTL = DefaultTranscriptTTL
	}
	if cfg.Session.SameSite == "" {
		cfg.Session.SameSite = DefaultSameSite
	}
	if cfg.Session.MaxCookieBytes == 0 {
		cfg.Session.MaxCookieBytes = DefaultMaxCookieBytes
	}

	// Secrets defaults
	if cfg.Secrets.EnvPrefix == "" {
		cfg.Secrets.EnvPrefix = DefaultSecretsEnvPrefix
	}
	if cfg.Secrets.CacheTTL == 0 {
		cfg.Secrets.CacheTTL = DefaultSecretsCacheTTL
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = append([]float64(nil), DefaultRequestDurationBuckets...)
	}
}

func applyCORSDefaults(cors *CORSConfig) {
	if len(cors.AllowedMethods) == 0 {
		cors.AllowedMethods = append([]string(nil), DefaultCORSAllowedMethods...)
	}
	if len(cors.AllowedHeaders) == 0 {
		cors.AllowedHeaders = append([]string(nil), DefaultCORSAllowedHeaders...)
	}
	if cors.MaxAge == 0 {
		cors.MaxAge = DefaultCORSMaxAge
	}
}

func applyProviderDefaults(p *ProviderConfig, name, displayName, baseURL, model string) {
	if p.Name == "" {
		p.Name = name
	}
	if p.DisplayName == "" {
		p.DisplayName = displayName
	}
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Model == "" {
		p.Model = model
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultProviderTimeout
	}
}
