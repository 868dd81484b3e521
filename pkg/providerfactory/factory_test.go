package providerfactory

import (
	"errors"
	"testing"
	"time"

	"mercator-hq/helpdesk/pkg/config"
	"mercator-hq/helpdesk/pkg/providers"
)

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      providers.ProviderConfig
		wantType string
	}{
		{
			name:     "openai",
			cfg:      providers.ProviderConfig{Name: "openai", Type: "openai", BaseURL: "https://api.openai.com/v1"},
			wantType: providers.TypeOpenAI,
		},
		{
			name:     "gemini",
			cfg:      providers.ProviderConfig{Name: "gemini", Type: "gemini", BaseURL: "https://generativelanguage.googleapis.com/v1beta"},
			wantType: providers.TypeGemini,
		},
		{
			name:     "type inferred from gemini name",
			cfg:      providers.ProviderConfig{Name: "gemini"},
			wantType: providers.TypeGemini,
		},
		{
			name:     "type inferred as openai otherwise",
			cfg:      providers.ProviderConfig{Name: "azure-openai"},
			wantType: providers.TypeOpenAI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.cfg)
			if err != nil {
				t.Fatalf("NewProvider() failed: %v", err)
			}
			defer provider.Close()

			if provider.GetName() != tt.cfg.Name {
				t.Errorf("name = %q, want %q", provider.GetName(), tt.cfg.Name)
			}
			if provider.GetType() != tt.wantType {
				t.Errorf("type = %q, want %q", provider.GetType(), tt.wantType)
			}
		})
	}
}

func TestNewProvider_UnsupportedType(t *testing.T) {
	_, err := NewProvider(providers.ProviderConfig{Name: "claude", Type: "anthropic"})

	var cfgErr *providers.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *providers.ConfigError", err)
	}
	if cfgErr.Field != "type" {
		t.Errorf("field = %q, want type", cfgErr.Field)
	}
}

func TestAdapterConfig(t *testing.T) {
	got := AdapterConfig(config.ProviderConfig{
		Name:        "openai",
		DisplayName: "OpenAI",
		BaseURL:     "http://localhost:9000/v1",
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		Timeout:     3 * time.Second,
		MaxRetries:  2,
		Temperature: 0.4,
		MaxTokens:   256,
	}, providers.TypeOpenAI)

	want := providers.ProviderConfig{
		Name:        "openai",
		Type:        providers.TypeOpenAI,
		DisplayName: "OpenAI",
		BaseURL:     "http://localhost:9000/v1",
		APIKey:      "sk-test",
		Model:       "gpt-4o-mini",
		Timeout:     3 * time.Second,
		MaxRetries:  2,
		Temperature: 0.4,
		MaxTokens:   256,
	}
	if got != want {
		t.Errorf("AdapterConfig() = %+v, want %+v", got, want)
	}
}

func TestNewPair(t *testing.T) {
	cfg := config.NewDefaultConfig()

	pair, err := NewPair(cfg.Providers)
	if err != nil {
		t.Fatalf("NewPair() failed: %v", err)
	}
	defer pair.Close()

	if pair.Primary.GetType() != providers.TypeOpenAI {
		t.Errorf("primary type = %q", pair.Primary.GetType())
	}
	if pair.Fallback.GetType() != providers.TypeGemini {
		t.Errorf("fallback type = %q", pair.Fallback.GetType())
	}
	if label := pair.Fallback.GetConfig().Label(); label != config.DefaultFallbackDisplayName {
		t.Errorf("fallback label = %q, want %q", label, config.DefaultFallbackDisplayName)
	}

	list := pair.Providers()
	if len(list) != 2 || list[0] != pair.Primary || list[1] != pair.Fallback {
		t.Errorf("Providers() = %v", list)
	}
}

func TestNewPair_InvalidFallback(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Providers.Fallback.Name = ""

	if _, err := NewPair(cfg.Providers); err == nil {
		t.Fatal("expected an error for a fallback without a name")
	}
}
