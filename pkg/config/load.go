package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Conventional credential variables, read when the config leaves an API key empty.
const (
	EnvOpenAIAPIKey = "OPENAI_API_KEY"
	EnvGeminiAPIKey = "GEMINI_API_KEY"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// ${VAR} references in the file are expanded from the environment before
// parsing. It applies default values, validates the configuration, and
// returns any errors. Use LoadConfigWithEnvOverrides to also apply
// HELPDESK_* environment overrides.
func LoadConfig(path string) (*Config, error) {
	// Read the file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	// Validate
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML configuration data and applies defaults.
// ${VAR} references are expanded from the environment; ${secret:name}
// references are kept for the secrets resolver. It does not validate.
func Parse(data []byte) (*Config, error) {
	expanded := os.Expand(string(data), expandVar)

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	ApplyDefaults(&cfg)
	return &cfg, nil
}

// SecretRefPrefix marks a ${secret:name} reference.
const SecretRefPrefix = "secret:"

func expandVar(name string) string {
	if strings.HasPrefix(name, SecretRefPrefix) {
		return "${" + name + "}"
	}
	return os.Getenv(name)
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention HELPDESK_SECTION_FIELD (e.g., HELPDESK_SERVER_LISTEN_ADDRESS).
// Environment variables always take precedence over file-based configuration.
//
// An empty path skips the file and starts from defaults, so the relay can
// run from environment variables alone.
//
// The loading sequence is:
// 1. Load YAML from file (or defaults)
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	var cfg *Config
	if path == "" {
		cfg = NewDefaultConfig()
	} else {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		cfg, err = Parse(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped so a default ".env" can be tried unconditionally.
func LoadDotEnv(paths ...string) error {
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load env file %q: %w", path, err)
		}
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format HELPDESK_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("HELPDESK_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("HELPDESK_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("HELPDESK_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("HELPDESK_SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}

	applyProviderEnvOverrides(&cfg.Providers.Primary, "HELPDESK_PROVIDERS_PRIMARY_", EnvOpenAIAPIKey)
	applyProviderEnvOverrides(&cfg.Providers.Fallback, "HELPDESK_PROVIDERS_FALLBACK_", EnvGeminiAPIKey)

	// Session overrides
	if val := os.Getenv("HELPDESK_SESSION_SECURE"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Session.Secure = b
		}
	}
	if val := os.Getenv("HELPDESK_SESSION_TRANSCRIPT_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Session.TranscriptTTL = d
		}
	}
	if val := os.Getenv("HELPDESK_SESSION_MAX_COOKIE_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Session.MaxCookieBytes = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("HELPDESK_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HELPDESK_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("HELPDESK_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = &b
		}
	}
}

// applyProviderEnvOverrides applies HELPDESK_PROVIDERS_<ROLE>_<FIELD> overrides
// to one provider, then falls back to the conventional key variable when the
// API key is still empty.
func applyProviderEnvOverrides(provider *ProviderConfig, prefix, conventionalKey string) {
	if val := os.Getenv(prefix + "BASE_URL"); val != "" {
		provider.BaseURL = val
	}
	if val := os.Getenv(prefix + "API_KEY"); val != "" {
		provider.APIKey = val
	}
	if val := os.Getenv(prefix + "MODEL"); val != "" {
		provider.Model = val
	}
	if val := os.Getenv(prefix + "TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			provider.Timeout = d
		}
	}
	if val := os.Getenv(prefix + "MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			provider.MaxRetries = i
		}
	}
	if val := os.Getenv(prefix + "TEMPERATURE"); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			provider.Temperature = f
		}
	}
	if val := os.Getenv(prefix + "MAX_TOKENS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			provider.MaxTokens = i
		}
	}

	if provider.APIKey == "" {
		provider.APIKey = os.Getenv(conventionalKey)
	}
}
