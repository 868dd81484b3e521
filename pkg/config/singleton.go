package config

import (
	"fmt"
	"sync/atomic"
)

// current is the configuration the process is running with.
var current atomic.Pointer[Config]

// GetConfig returns the configuration published with SetConfig or
// ReloadConfig, or nil before either is called.
//
// Components receive their configuration explicitly; the published copy is
// for code that only needs to inspect it.
func GetConfig() *Config {
	return current.Load()
}

// SetConfig publishes cfg as the process configuration.
func SetConfig(cfg *Config) {
	current.Store(cfg)
}

// ReloadConfig loads path with environment overrides and publishes the
// result. On error the published configuration is left unchanged.
func ReloadConfig(path string) (*Config, error) {
	cfg, err := LoadConfigWithEnvOverrides(path)
	if err != nil {
		return nil, fmt.Errorf("failed to reload configuration: %w", err)
	}

	SetConfig(cfg)
	return cfg, nil
}
