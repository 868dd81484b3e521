package providers

import (
	"errors"
	"testing"
	"time"

	"mercator-hq/helpdesk/pkg/providers"
)

// OpenAIConfig returns an adapter configuration for an OpenAI-compatible
// endpoint at baseURL with short test timeouts.
func OpenAIConfig(baseURL string) providers.ProviderConfig {
	return adapterConfig("openai", providers.TypeOpenAI, "OpenAI", baseURL)
}

// GeminiConfig returns an adapter configuration for a Gemini endpoint at baseURL.
func GeminiConfig(baseURL string) providers.ProviderConfig {
	return adapterConfig("gemini", providers.TypeGemini, "Gemini", baseURL)
}

func adapterConfig(name, providerType, displayName, baseURL string) providers.ProviderConfig {
	return providers.ProviderConfig{
		Name:                name,
		Type:                providerType,
		DisplayName:         displayName,
		BaseURL:             baseURL,
		APIKey:              "test-key",
		Timeout:             5 * time.Second,
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     10 * time.Second,
	}
}

// Request builds a completion request from messages with the provider's
// default model.
func Request(messages ...providers.Message) *providers.CompletionRequest {
	return &providers.CompletionRequest{Messages: messages}
}

// Msg builds one message.
func Msg(role, content string) providers.Message {
	return providers.Message{Role: role, Content: content}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertErrorKind fails the test unless err is a *providers.ProviderError of
// the expected kind, and returns it.
func AssertErrorKind(t *testing.T, err error, kind providers.ErrorKind) *providers.ProviderError {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s error, got nil", kind)
	}

	var perr *providers.ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %T: %v", err, err)
	}
	if perr.Kind != kind {
		t.Fatalf("expected kind %s, got %s: %v", kind, perr.Kind, err)
	}
	return perr
}
