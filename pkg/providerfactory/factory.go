// Package providerfactory builds provider adapters from configuration.
package providerfactory

import (
	"errors"
	"fmt"
	"log/slog"

	"mercator-hq/helpdesk/pkg/config"
	"mercator-hq/helpdesk/pkg/providers"
	"mercator-hq/helpdesk/pkg/providers/gemini"
	"mercator-hq/helpdesk/pkg/providers/openai"
)

// NewProvider creates a provider adapter for config.Type.
//
// Supported provider types:
//   - "openai": OpenAI chat completions
//   - "gemini": Gemini generateContent
//
// When Type is empty it is inferred from the provider name, so a provider
// named "gemini" speaks the Gemini protocol and anything else speaks OpenAI.
func NewProvider(cfg providers.ProviderConfig) (providers.Provider, error) {
	if cfg.Type == "" {
		cfg.Type = inferProviderType(cfg.Name)
	}

	slog.Debug("creating provider",
		"name", cfg.Name,
		"type", cfg.Type,
		"base_url", cfg.BaseURL,
	)

	var (
		provider providers.Provider
		err      error
	)
	switch cfg.Type {
	case providers.TypeOpenAI:
		provider, err = openai.NewProvider(cfg)
	case providers.TypeGemini:
		provider, err = gemini.NewProvider(cfg)
	default:
		return nil, &providers.ConfigError{
			Provider: cfg.Name,
			Field:    "type",
			Message:  fmt.Sprintf("unsupported provider type: %q (supported: openai, gemini)", cfg.Type),
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create provider %q: %w", cfg.Name, err)
	}

	return provider, nil
}

// AdapterConfig converts a provider section of the relay configuration into
// the adapter configuration for the given wire protocol.
func AdapterConfig(cfg config.ProviderConfig, providerType string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:        cfg.Name,
		Type:        providerType,
		DisplayName: cfg.DisplayName,
		BaseURL:     cfg.BaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		Timeout:     cfg.Timeout,
		MaxRetries:  cfg.MaxRetries,
		Temperature: cfg.Temperature,
		MaxTokens:   cfg.MaxTokens,
	}
}

// Pair holds the primary and fallback providers of one configuration.
type Pair struct {
	Primary  providers.Provider
	Fallback providers.Provider
}

// NewPair creates the OpenAI primary and the Gemini fallback.
func NewPair(cfg config.ProvidersConfig) (*Pair, error) {
	primary, err := NewProvider(AdapterConfig(cfg.Primary, providers.TypeOpenAI))
	if err != nil {
		return nil, fmt.Errorf("primary: %w", err)
	}

	fallback, err := NewProvider(AdapterConfig(cfg.Fallback, providers.TypeGemini))
	if err != nil {
		primary.Close()
		return nil, fmt.Errorf("fallback: %w", err)
	}

	slog.Info("providers configured",
		"primary", primary.GetName(),
		"primary_model", cfg.Primary.Model,
		"fallback", fallback.GetName(),
		"fallback_model", cfg.Fallback.Model,
	)

	return &Pair{Primary: primary, Fallback: fallback}, nil
}

// Providers returns the providers, primary first.
func (p *Pair) Providers() []providers.Provider {
	return []providers.Provider{p.Primary, p.Fallback}
}

// Close releases both providers' connections.
func (p *Pair) Close() error {
	return errors.Join(p.Primary.Close(), p.Fallback.Close())
}

func inferProviderType(name string) string {
	if name == providers.TypeGemini {
		return providers.TypeGemini
	}
	return providers.TypeOpenAI
}
