package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	testhelpers "mercator-hq/helpdesk/internal/providers"
	"mercator-hq/helpdesk/pkg/providers"
)

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	provider, err := NewProvider(testhelpers.OpenAIConfig(baseURL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func supportRequest() *providers.CompletionRequest {
	return testhelpers.Request(
		testhelpers.Msg(providers.RoleSystem, "You are a customer support agent."),
		testhelpers.Msg(providers.RoleUser, "Hi"),
	)
}

func TestOpenAIProvider_SendCompletion(t *testing.T) {
	mock := testhelpers.NewUpstream()
	defer mock.Close()

	mock.Reply("/v1/chat/completions", testhelpers.Response{
		StatusCode: 200,
		Body:       testhelpers.OpenAIChat("Hello Al", "gpt-3.5-turbo"),
	})

	provider := newTestProvider(t, mock.URL()+"/v1")

	resp, err := provider.SendCompletion(context.Background(), supportRequest())
	testhelpers.AssertNoError(t, err)

	if resp.Content != "Hello Al" {
		t.Errorf("expected content %q, got %q", "Hello Al", resp.Content)
	}
	if resp.Usage.TotalTokens != 30 {
		t.Errorf("expected total tokens 30, got %d", resp.Usage.TotalTokens)
	}
	if resp.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason %q, got %q", providers.FinishReasonStop, resp.FinishReason)
	}
	if mock.Hits() != 1 {
		t.Errorf("expected 1 request, got %d", mock.Hits())
	}

	req, ok := mock.Last()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if req.Method != http.MethodPost {
		t.Errorf("expected POST, got %s", req.Method)
	}
	if err := testhelpers.HeaderContains(req.Header, "Authorization", "Bearer test-key"); err != nil {
		t.Error(err)
	}

	expected := map[string]interface{}{
		"model": "gpt-3.5-turbo",
		"messages": []map[string]string{
			{"role": "system", "content": "You are a customer support agent."},
			{"role": "user", "content": "Hi"},
		},
	}
	if err := testhelpers.JSONEqual(req.Body, expected); err != nil {
		t.Error(err)
	}
}

func TestOpenAIProvider_RequestModelOverrides(t *testing.T) {
	mock := testhelpers.NewUpstream()
	defer mock.Close()
	mock.Reply("/v1/chat/completions", testhelpers.Response{
		StatusCode: 200,
		Body:       testhelpers.OpenAIChat("ok", "gpt-4o-mini"),
	})

	provider := newTestProvider(t, mock.URL()+"/v1/")
	req := supportRequest()
	req.Model = "gpt-4o-mini"

	_, err := provider.SendCompletion(context.Background(), req)
	testhelpers.AssertNoError(t, err)

	recorded, _ := mock.Last()
	var body chatRequest
	if err := json.Unmarshal(recorded.Body, &body); err != nil {
		t.Fatalf("failed to decode request: %v", err)
	}
	if body.Model != "gpt-4o-mini" {
		t.Errorf("expected request model to win, got %q", body.Model)
	}
}

func TestOpenAIProvider_UpstreamRejected(t *testing.T) {
	tests := []struct {
		name        string
		response    testhelpers.Response
		wantStatus  int
		wantMessage string
	}{
		{"rate limited", testhelpers.RateLimited(20), http.StatusTooManyRequests, "Rate limit exceeded"},
		{"bad key", testhelpers.Unauthorized(), http.StatusUnauthorized, "Invalid API key"},
		{"server error", testhelpers.InternalError(), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewUpstream()
			defer mock.Close()
			mock.Reply("/v1/chat/completions", tt.response)

			provider := newTestProvider(t, mock.URL()+"/v1")
			_, err := provider.SendCompletion(context.Background(), supportRequest())

			perr := testhelpers.AssertErrorKind(t, err, providers.KindUpstreamRejected)
			if perr.StatusCode != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, perr.StatusCode)
			}
			if perr.Message != tt.wantMessage {
				t.Errorf("expected message %q, got %q", tt.wantMessage, perr.Message)
			}
			if perr.Provider != "openai" {
				t.Errorf("expected provider openai, got %q", perr.Provider)
			}
		})
	}
}

func TestOpenAIProvider_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"no choices", map[string]interface{}{"id": "x", "choices": []interface{}{}}},
		{"missing choices", map[string]interface{}{"id": "x"}},
		{"empty content", testhelpers.OpenAIChat("", "gpt-3.5-turbo")},
		{"not json", "<html>gateway</html>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewUpstream()
			defer mock.Close()
			mock.Reply("/v1/chat/completions", testhelpers.Response{StatusCode: 200, Body: tt.body})

			provider := newTestProvider(t, mock.URL()+"/v1")
			_, err := provider.SendCompletion(context.Background(), supportRequest())
			testhelpers.AssertErrorKind(t, err, providers.KindMalformedResponse)

			if provider.GetHealth().ConsecutiveFailures != 1 {
				t.Errorf("expected malformed response to count as a failure")
			}
		})
	}
}

func TestOpenAIProvider_Timeout(t *testing.T) {
	mock := testhelpers.NewUpstream()
	defer mock.Close()
	mock.Reply("/v1/chat/completions", testhelpers.Slow(2*time.Second))

	config := testhelpers.OpenAIConfig(mock.URL()+"/v1")
	config.Timeout = 50 * time.Millisecond
	provider, err := NewProvider(config)
	testhelpers.AssertNoError(t, err)
	defer provider.Close()

	_, err = provider.SendCompletion(context.Background(), supportRequest())
	testhelpers.AssertErrorKind(t, err, providers.KindUnreachable)
}

func TestOpenAIProvider_InvalidRequest(t *testing.T) {
	provider := newTestProvider(t, "http://127.0.0.1:1")

	var verr *providers.ValidationError
	if _, err := provider.SendCompletion(context.Background(), nil); !errors.As(err, &verr) {
		t.Errorf("expected validation error for nil request, got %v", err)
	}
	if _, err := provider.SendCompletion(context.Background(), &providers.CompletionRequest{}); !errors.As(err, &verr) {
		t.Errorf("expected validation error for empty messages, got %v", err)
	}
	bad := testhelpers.Request(testhelpers.Msg("tool", "x"))
	if _, err := provider.SendCompletion(context.Background(), bad); !errors.As(err, &verr) {
		t.Errorf("expected validation error for unsupported role, got %v", err)
	}
}

func TestNewProvider_Defaults(t *testing.T) {
	provider, err := NewProvider(providers.ProviderConfig{Name: "openai"})
	testhelpers.AssertNoError(t, err)
	defer provider.Close()

	cfg := provider.GetConfig()
	if cfg.BaseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", cfg.BaseURL)
	}
	if cfg.Model != DefaultModel {
		t.Errorf("expected default model, got %q", cfg.Model)
	}
	if provider.GetType() != providers.TypeOpenAI {
		t.Errorf("expected type openai, got %q", provider.GetType())
	}

	if _, err := NewProvider(providers.ProviderConfig{}); err == nil {
		t.Error("expected error for missing name")
	}
}
