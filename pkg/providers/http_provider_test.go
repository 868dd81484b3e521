package providers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func newTestProvider(url string, maxRetries int) *HTTPProvider {
	p := NewHTTPProvider(ProviderConfig{
		Name:       "test-provider",
		Type:       TypeOpenAI,
		BaseURL:    url,
		Timeout:    2 * time.Second,
		MaxRetries: maxRetries,
	})
	p.backoffBase = time.Millisecond
	return p
}

func TestHTTPProvider_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type, got %q", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("expected authorization header, got %q", r.Header.Get("Authorization"))
		}
		_, _ = w.Write([]byte(`{"message": "ok"}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, 0)

	var out struct {
		Message string `json:"message"`
	}
	err := provider.DoJSONRequest(context.Background(), http.MethodPost, server.URL, map[string]string{"a": "b"}, &out,
		map[string]string{"Authorization": "Bearer sk-test"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Message != "ok" {
		t.Errorf("expected message ok, got %q", out.Message)
	}

	health := provider.GetHealth()
	if !health.IsHealthy || health.TotalRequests != 1 || health.FailedRequests != 0 {
		t.Errorf("unexpected health after success: %+v", health)
	}
}

func TestHTTPProvider_NoRetryByDefault(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "boom"}}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, 0)
	_, err := provider.DoRequest(context.Background(), http.MethodPost, server.URL, []byte(`{}`), nil)

	var perr *ProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *ProviderError, got %T: %v", err, err)
	}
	if perr.Kind != KindUpstreamRejected || perr.StatusCode != http.StatusInternalServerError {
		t.Errorf("unexpected error: %+v", perr)
	}
	if perr.Message != "boom" {
		t.Errorf("expected extracted message %q, got %q", "boom", perr.Message)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected 1 attempt, got %d", got)
	}
}

func TestHTTPProvider_RetryOn5xx(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) <= 2 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, 3)
	resp, err := provider.DoRequest(context.Background(), http.MethodPost, server.URL, []byte(`{}`), nil)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	resp.Body.Close()

	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
	if !provider.IsHealthy() {
		t.Error("expected provider to be healthy after successful retry")
	}
}

func TestHTTPProvider_RetriesExhausted(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, 2)
	_, err := provider.DoRequest(context.Background(), http.MethodPost, server.URL, nil, nil)
	if KindOf(err) != KindUpstreamRejected {
		t.Fatalf("expected upstream rejected, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 3 {
		t.Errorf("expected 3 attempts, got %d", got)
	}
}

func TestHTTPProvider_NoRetryOn4xx(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
	}{
		{"400 bad request", http.StatusBadRequest},
		{"401 unauthorized", http.StatusUnauthorized},
		{"403 forbidden", http.StatusForbidden},
		{"429 rate limited", http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var attempts int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				atomic.AddInt32(&attempts, 1)
				w.Header().Set("Retry-After", "7")
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(`{"error": {"message": "rejected"}}`))
			}))
			defer server.Close()

			provider := newTestProvider(server.URL, 3)
			_, err := provider.DoRequest(context.Background(), http.MethodPost, server.URL, nil, nil)

			var perr *ProviderError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *ProviderError, got %v", err)
			}
			if perr.Kind != KindUpstreamRejected || perr.StatusCode != tt.statusCode {
				t.Errorf("unexpected error: %+v", perr)
			}
			if got := atomic.LoadInt32(&attempts); got != 1 {
				t.Errorf("expected 1 attempt, got %d", got)
			}
			if tt.statusCode == http.StatusTooManyRequests && perr.RetryAfter != 7*time.Second {
				t.Errorf("expected retry after 7s, got %v", perr.RetryAfter)
			}
		})
	}
}

func TestHTTPProvider_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	provider := newTestProvider(url, 0)
	_, err := provider.DoRequest(context.Background(), http.MethodPost, url, nil, nil)
	if KindOf(err) != KindUnreachable {
		t.Fatalf("expected unreachable, got %v", err)
	}
}

func TestHTTPProvider_WarnsOnlyBeforeRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	for _, tt := range []struct {
		maxRetries int
		wantWarns  int
	}{
		{0, 0},
		{2, 2},
	} {
		logs.Reset()
		provider := newTestProvider(server.URL, tt.maxRetries)
		if _, err := provider.DoRequest(context.Background(), http.MethodPost, server.URL, nil, nil); err == nil {
			t.Fatal("expected an error")
		}
		if got := strings.Count(logs.String(), "provider attempt failed"); got != tt.wantWarns {
			t.Errorf("max_retries=%d: %d retry warnings, want %d", tt.maxRetries, got, tt.wantWarns)
		}
	}
}

func TestHTTPProvider_UnreachableErrorOmitsQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := server.URL
	server.Close()

	provider := newTestProvider(base, 0)
	_, err := provider.DoRequest(context.Background(), http.MethodPost, base+"/models/gemini-pro:generateContent?key=AIzaQuerySecret", nil, nil)
	if KindOf(err) != KindUnreachable {
		t.Fatalf("expected unreachable, got %v", err)
	}
	if strings.Contains(err.Error(), "AIzaQuerySecret") {
		t.Errorf("error exposes the query string: %v", err)
	}
	if !strings.Contains(err.Error(), "/models/gemini-pro:generateContent") {
		t.Errorf("error lost the request path: %v", err)
	}
}

func TestHTTPProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	provider := NewHTTPProvider(ProviderConfig{Name: "slow", Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := provider.DoRequest(context.Background(), http.MethodPost, server.URL, nil, nil)
	if KindOf(err) != KindUnreachable {
		t.Fatalf("expected timeout to be unreachable, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Errorf("expected request to be cut off by the timeout, took %v", time.Since(start))
	}
}

func TestHTTPProvider_ContextCancelled(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		<-r.Context().Done()
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, 3)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := provider.DoRequest(ctx, http.MethodPost, server.URL, nil, nil)
	if KindOf(err) != KindUnreachable {
		t.Fatalf("expected unreachable, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded in chain, got %v", err)
	}
	if got := atomic.LoadInt32(&attempts); got != 1 {
		t.Errorf("expected no retry after cancellation, got %d attempts", got)
	}
}

func TestHTTPProvider_MalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	provider := newTestProvider(server.URL, 0)
	var out map[string]any
	err := provider.DoJSONRequest(context.Background(), http.MethodPost, server.URL, nil, &out, nil)
	if KindOf(err) != KindMalformedResponse {
		t.Fatalf("expected malformed response, got %v", err)
	}

	health := provider.GetHealth()
	if health.FailedRequests != 1 || health.ConsecutiveFailures != 1 {
		t.Errorf("expected malformed body to count as a failure, got %+v", health)
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("expected 0 for empty header, got %v", got)
	}
	if got := parseRetryAfter("12"); got != 12*time.Second {
		t.Errorf("expected 12s, got %v", got)
	}
	if got := parseRetryAfter("soon"); got != 0 {
		t.Errorf("expected 0 for garbage, got %v", got)
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if got := parseRetryAfter(future); got <= 0 || got > time.Minute {
		t.Errorf("expected positive duration up to a minute, got %v", got)
	}
}

func TestHTTPProvider_Backoff(t *testing.T) {
	p := NewHTTPProvider(ProviderConfig{Name: "x"})
	if got := p.backoff(1); got != time.Second {
		t.Errorf("backoff(1) = %v, want 1s", got)
	}
	if got := p.backoff(3); got != 4*time.Second {
		t.Errorf("backoff(3) = %v, want 4s", got)
	}
	if got := p.backoff(10); got != maxBackoff {
		t.Errorf("backoff(10) = %v, want %v", got, maxBackoff)
	}
}
