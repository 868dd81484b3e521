package gemini

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	testhelpers "mercator-hq/helpdesk/internal/providers"
	"mercator-hq/helpdesk/pkg/providers"
)

const generatePath = "/v1beta/models/gemini-pro:generateContent"

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	provider, err := NewProvider(testhelpers.GeminiConfig(baseURL))
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { provider.Close() })
	return provider
}

func promptRequest(text string) *providers.CompletionRequest {
	return testhelpers.Request(testhelpers.Msg(providers.RoleUser, text))
}

func TestGeminiProvider_SendCompletion(t *testing.T) {
	mock := testhelpers.NewUpstream()
	defer mock.Close()

	mock.Reply(generatePath, testhelpers.Response{
		StatusCode: 200,
		Body:       testhelpers.GeminiContent("Hi ", "there"),
	})

	provider := newTestProvider(t, mock.URL()+"/v1beta")
	conversation := "System: You are a customer support agent.\nUser: Hi\nAI:"

	resp, err := provider.SendCompletion(context.Background(), promptRequest(conversation))
	testhelpers.AssertNoError(t, err)

	if resp.Content != "Hi there" {
		t.Errorf("expected concatenated parts %q, got %q", "Hi there", resp.Content)
	}
	if resp.Usage.TotalTokens != 20 {
		t.Errorf("expected total tokens 20, got %d", resp.Usage.TotalTokens)
	}
	if resp.FinishReason != providers.FinishReasonStop {
		t.Errorf("expected finish reason stop, got %q", resp.FinishReason)
	}

	req, ok := mock.Last()
	if !ok {
		t.Fatal("expected a recorded request")
	}
	if got := req.Header.Get("X-Goog-Api-Key"); got != "test-key" {
		t.Errorf("expected API key header, got %q", got)
	}
	if req.Query != "" {
		t.Errorf("expected no query string, got %q", req.Query)
	}
	if req.Header.Get("Authorization") != "" {
		t.Error("expected no Authorization header")
	}

	expected := map[string]interface{}{
		"contents": []map[string]interface{}{
			{"parts": []map[string]string{{"text": conversation}}},
		},
	}
	if err := testhelpers.JSONEqual(req.Body, expected); err != nil {
		t.Error(err)
	}
}

func TestGeminiProvider_UpstreamRejected(t *testing.T) {
	mock := testhelpers.NewUpstream()
	defer mock.Close()
	mock.Reply(generatePath, testhelpers.GeminiError(http.StatusBadRequest, "INVALID_ARGUMENT", "API key not valid. Please pass a valid API key."))

	provider := newTestProvider(t, mock.URL()+"/v1beta")
	_, err := provider.SendCompletion(context.Background(), promptRequest("User: Hi\nAI:"))

	perr := testhelpers.AssertErrorKind(t, err, providers.KindUpstreamRejected)
	if perr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", perr.StatusCode)
	}
	if perr.Message != "API key not valid. Please pass a valid API key." {
		t.Errorf("unexpected message %q", perr.Message)
	}
}

func TestGeminiProvider_MalformedResponse(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"no candidates", map[string]interface{}{"candidates": []interface{}{}}},
		{"missing candidates", map[string]interface{}{}},
		{"blocked prompt", map[string]interface{}{"promptFeedback": map[string]string{"blockReason": "SAFETY"}}},
		{"no parts", map[string]interface{}{"candidates": []map[string]interface{}{{"finishReason": "SAFETY"}}}},
		{"empty text", testhelpers.GeminiContent("")},
		{"not json", "oops"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testhelpers.NewUpstream()
			defer mock.Close()
			mock.Reply(generatePath, testhelpers.Response{StatusCode: 200, Body: tt.body})

			provider := newTestProvider(t, mock.URL()+"/v1beta")
			_, err := provider.SendCompletion(context.Background(), promptRequest("User: Hi\nAI:"))
			testhelpers.AssertErrorKind(t, err, providers.KindMalformedResponse)
		})
	}
}

func TestGeminiProvider_Unreachable(t *testing.T) {
	mock := testhelpers.NewUpstream()
	mock.Reply(generatePath, testhelpers.Response{
		StatusCode: 200,
		Body:       testhelpers.GeminiContent("late"),
		Delay:      2 * time.Second,
	})
	defer mock.Close()

	config := testhelpers.GeminiConfig(mock.URL()+"/v1beta")
	config.Timeout = 50 * time.Millisecond
	provider, err := NewProvider(config)
	testhelpers.AssertNoError(t, err)
	defer provider.Close()

	_, err = provider.SendCompletion(context.Background(), promptRequest("User: Hi\nAI:"))
	testhelpers.AssertErrorKind(t, err, providers.KindUnreachable)
}

func TestGeminiProvider_InvalidRequest(t *testing.T) {
	provider := newTestProvider(t, "http://127.0.0.1:1")

	var verr *providers.ValidationError
	if _, err := provider.SendCompletion(context.Background(), nil); !errors.As(err, &verr) {
		t.Errorf("expected validation error for nil request, got %v", err)
	}
	systemOnly := testhelpers.Request(testhelpers.Msg(providers.RoleSystem, "sys"))
	if _, err := provider.SendCompletion(context.Background(), systemOnly); !errors.As(err, &verr) {
		t.Errorf("expected validation error for system-only request, got %v", err)
	}
}

func TestProvider_Endpoint(t *testing.T) {
	provider, err := NewProvider(providers.ProviderConfig{Name: "gemini", APIKey: "a b&c"})
	testhelpers.AssertNoError(t, err)
	defer provider.Close()

	want := DefaultBaseURL + "/models/gemini-1.5-flash:generateContent"
	if got := provider.endpoint("gemini-1.5-flash"); got != want {
		t.Errorf("endpoint() = %q, want %q", got, want)
	}
	if got := provider.headers()[apiKeyHeader]; got != "a b&c" {
		t.Errorf("headers() key = %q", got)
	}

	noKey, err := NewProvider(providers.ProviderConfig{Name: "gemini", BaseURL: "http://local/v1beta/"})
	testhelpers.AssertNoError(t, err)
	defer noKey.Close()
	if got := noKey.endpoint("gemini-pro"); got != "http://local/v1beta/models/gemini-pro:generateContent" {
		t.Errorf("unexpected endpoint without key: %q", got)
	}
	if h := noKey.headers(); h != nil {
		t.Errorf("expected no headers without a key, got %v", h)
	}
}
