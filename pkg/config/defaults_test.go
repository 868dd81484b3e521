package config

import (
	"testing"
	"time"
)

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected listen address %q, got %q", DefaultListenAddress, cfg.Server.ListenAddress)
	}
	if cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("expected max body bytes %d, got %d", DefaultMaxBodyBytes, cfg.Server.MaxBodyBytes)
	}
	if cfg.Providers.Primary.BaseURL != DefaultPrimaryBaseURL {
		t.Errorf("expected primary base URL %q, got %q", DefaultPrimaryBaseURL, cfg.Providers.Primary.BaseURL)
	}
	if cfg.Providers.Primary.Model != "gpt-3.5-turbo" {
		t.Errorf("expected primary model gpt-3.5-turbo, got %q", cfg.Providers.Primary.Model)
	}
	if cfg.Providers.Fallback.Model != "gemini-pro" {
		t.Errorf("expected fallback model gemini-pro, got %q", cfg.Providers.Fallback.Model)
	}
	if cfg.Providers.Fallback.DisplayName != "Gemini" {
		t.Errorf("expected fallback display name Gemini, got %q", cfg.Providers.Fallback.DisplayName)
	}
	if cfg.Providers.Primary.MaxRetries != 0 {
		t.Errorf("expected no retries by default, got %d", cfg.Providers.Primary.MaxRetries)
	}
	if cfg.Session.TranscriptTTL != 24*time.Hour {
		t.Errorf("expected transcript TTL 24h, got %v", cfg.Session.TranscriptTTL)
	}
	if cfg.Session.CookiePath != "/" {
		t.Errorf("expected cookie path /, got %q", cfg.Session.CookiePath)
	}
	if !cfg.Telemetry.Metrics.IsEnabled() {
		t.Error("expected metrics enabled by default")
	}
	if !cfg.Telemetry.Logging.ShouldRedact() {
		t.Error("expected redaction enabled by default")
	}
	if !cfg.Server.CORS.CredentialsAllowed() {
		t.Error("expected CORS credentials allowed by default")
	}
}

func TestApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{ListenAddress: "0.0.0.0:8080"},
		Providers: ProvidersConfig{
			Primary: ProviderConfig{Model: "gpt-4o-mini", Timeout: 3 * time.Second},
		},
		Session: SessionConfig{SameSite: "strict"},
	}
	ApplyDefaults(cfg)

	if cfg.Server.ListenAddress != "0.0.0.0:8080" {
		t.Errorf("expected explicit listen address preserved, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Providers.Primary.Model != "gpt-4o-mini" {
		t.Errorf("expected explicit model preserved, got %q", cfg.Providers.Primary.Model)
	}
	if cfg.Providers.Primary.Timeout != 3*time.Second {
		t.Errorf("expected explicit timeout preserved, got %v", cfg.Providers.Primary.Timeout)
	}
	if cfg.Session.SameSite != "strict" {
		t.Errorf("expected explicit SameSite preserved, got %q", cfg.Session.SameSite)
	}
}

func TestApplyDefaults_BucketsNotShared(t *testing.T) {
	a := NewDefaultConfig()
	b := NewDefaultConfig()
	a.Telemetry.Metrics.RequestDurationBuckets[0] = 99

	if b.Telemetry.Metrics.RequestDurationBuckets[0] == 99 {
		t.Error("expected default buckets to be copied per config")
	}
	if DefaultRequestDurationBuckets[0] == 99 {
		t.Error("expected package defaults to be untouched")
	}
}
