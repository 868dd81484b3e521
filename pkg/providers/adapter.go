package providers

import (
	"log/slog"
	"strings"
)

// AdapterDefaults are the values an adapter fills into a ProviderConfig
// that leaves them unset.
type AdapterDefaults struct {
	Type    string
	BaseURL string
	Model   string
}

const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
)

// NewAdapterBase validates cfg, fills in d and the pool sizes, and returns
// the HTTPProvider an adapter embeds. An empty API key is accepted; the
// upstream rejects the call.
func NewAdapterBase(cfg ProviderConfig, d AdapterDefaults) (*HTTPProvider, error) {
	if cfg.Name == "" {
		return nil, &ConfigError{Provider: d.Type, Field: "name", Message: "provider name is required"}
	}

	if cfg.Type == "" {
		cfg.Type = d.Type
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = d.BaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Model == "" {
		cfg.Model = d.Model
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = defaultMaxIdleConns
	}
	if cfg.MaxIdleConnsPerHost == 0 {
		cfg.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}

	slog.Info("provider initialized",
		"provider", cfg.Name,
		"type", cfg.Type,
		"base_url", cfg.BaseURL,
		"model", cfg.Model,
	)
	return NewHTTPProvider(cfg), nil
}

// Malformed records a 2xx reply the adapter could not use and returns the
// KindMalformedResponse error for it.
func (p *HTTPProvider) Malformed(reason error) *ProviderError {
	perr := NewMalformedError(p.config.Name, reason.Error(), nil)
	p.RecordFailure(perr)
	return perr
}

// Completed logs a successful call at debug level and returns resp.
func (p *HTTPProvider) Completed(resp *CompletionResponse) *CompletionResponse {
	slog.Debug("provider completion",
		"provider", p.config.Name,
		"model", resp.Model,
		"tokens", resp.Usage.TotalTokens,
	)
	return resp
}
