// Package config provides configuration management for the helpdesk relay.
//
// This package handles loading, validating, and managing configuration from
// YAML files with environment variable overrides. Provider credentials are
// injected here and passed down explicitly; nothing below the command layer
// reads the environment.
//
// # Configuration Loading
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// An empty path starts from defaults, so the relay can run from environment
// variables alone. ${VAR} references inside the YAML file are expanded
// before parsing, and LoadDotEnv can populate the environment from a .env file.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention HELPDESK_SECTION_FIELD:
//
//   - HELPDESK_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - HELPDESK_PROVIDERS_PRIMARY_API_KEY overrides providers.primary.api_key
//   - HELPDESK_PROVIDERS_FALLBACK_MODEL overrides providers.fallback.model
//   - HELPDESK_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// When a provider API key is still empty, OPENAI_API_KEY (primary) and
// GEMINI_API_KEY (fallback) are used.
//
// # Hot Reload
//
// Watcher observes the config file with fsnotify and reports each valid new
// configuration to a callback; invalid edits are logged and ignored.
package config
