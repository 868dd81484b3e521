package providers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Upstream stands in for the OpenAI and Gemini APIs. Replies are registered
// per URL path; unregistered paths answer 404. Every request is recorded.
type Upstream struct {
	srv *httptest.Server

	mu      sync.Mutex
	replies map[string]Response
	seen    []Recorded
}

// Response is a canned upstream reply. Body may be a string, a byte slice or
// any value encoded as JSON.
type Response struct {
	StatusCode int
	Body       any
	Delay      time.Duration
	Headers    map[string]string
}

// Recorded is one request as the upstream received it.
type Recorded struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// NewUpstream starts a fake upstream. Callers must Close it.
func NewUpstream() *Upstream {
	u := &Upstream{replies: make(map[string]Response)}
	u.srv = httptest.NewServer(http.HandlerFunc(u.serve))
	return u
}

// URL is the base URL to configure as a provider's base_url.
func (u *Upstream) URL() string { return u.srv.URL }

// Close shuts the server down.
func (u *Upstream) Close() { u.srv.Close() }

// Reply registers the response served for path.
func (u *Upstream) Reply(path string, r Response) {
	u.mu.Lock()
	u.replies[path] = r
	u.mu.Unlock()
}

// Hits is the number of requests received so far.
func (u *Upstream) Hits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.seen)
}

// Last returns the latest request, if any.
func (u *Upstream) Last() (Recorded, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if len(u.seen) == 0 {
		return Recorded{}, false
	}
	return u.seen[len(u.seen)-1], true
}

func (u *Upstream) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	u.mu.Lock()
	u.seen = append(u.seen, Recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.RawQuery,
		Header: r.Header.Clone(),
		Body:   body,
	})
	reply, ok := u.replies[r.URL.Path]
	u.mu.Unlock()

	if !ok {
		http.NotFound(w, r)
		return
	}

	if reply.Delay > 0 {
		t := time.NewTimer(reply.Delay)
		defer t.Stop()
		select {
		case <-t.C:
		case <-r.Context().Done():
			return
		}
	}

	w.Header().Set("Content-Type", "application/json")
	for k, v := range reply.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(reply.StatusCode)

	switch b := reply.Body.(type) {
	case nil:
	case string:
		_, _ = io.WriteString(w, b)
	case []byte:
		_, _ = w.Write(b)
	default:
		_ = json.NewEncoder(w).Encode(b)
	}
}

type openAIChoice struct {
	Index   int `json:"index"`
	Message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"message"`
	FinishReason string `json:"finish_reason"`
}

// OpenAIChat is a successful chat.completions body with a single choice.
func OpenAIChat(content, model string) any {
	choice := openAIChoice{FinishReason: "stop"}
	choice.Message.Role = "assistant"
	choice.Message.Content = content

	return map[string]any{
		"id":      "chatcmpl-helpdesk",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   model,
		"choices": []openAIChoice{choice},
		"usage": map[string]int{
			"prompt_tokens":     10,
			"completion_tokens": 20,
			"total_tokens":      30,
		},
	}
}

// GeminiContent is a successful generateContent body whose only candidate
// carries the given text parts.
func GeminiContent(parts ...string) any {
	textParts := make([]map[string]string, 0, len(parts))
	for _, p := range parts {
		textParts = append(textParts, map[string]string{"text": p})
	}

	return map[string]any{
		"candidates": []map[string]any{{
			"content":      map[string]any{"role": "model", "parts": textParts},
			"finishReason": "STOP",
			"index":        0,
		}},
		"usageMetadata": map[string]int{
			"promptTokenCount":     12,
			"candidatesTokenCount": 8,
			"totalTokenCount":      20,
		},
		"modelVersion": "gemini-pro",
	}
}

func openAIError(status int, message string) Response {
	return Response{
		StatusCode: status,
		Body: map[string]any{"error": map[string]any{
			"message": message,
			"type":    "invalid_request_error",
			"code":    status,
		}},
	}
}

// GeminiError is a Google API error envelope.
func GeminiError(status int, code, message string) Response {
	return Response{
		StatusCode: status,
		Body: map[string]any{"error": map[string]any{
			"code":    status,
			"message": message,
			"status":  code,
		}},
	}
}

// Unauthorized is OpenAI's answer to a bad API key.
func Unauthorized() Response {
	return openAIError(http.StatusUnauthorized, "Invalid API key")
}

// RateLimited is an OpenAI 429 carrying Retry-After.
func RateLimited(retryAfter int) Response {
	r := openAIError(http.StatusTooManyRequests, "Rate limit exceeded")
	r.Headers = map[string]string{"Retry-After": strconv.Itoa(retryAfter)}
	return r
}

// InternalError is an OpenAI 500.
func InternalError() Response {
	return openAIError(http.StatusInternalServerError, "Internal server error")
}

// Slow is a successful OpenAI reply held back for delay.
func Slow(delay time.Duration) Response {
	return Response{
		StatusCode: http.StatusOK,
		Body:       OpenAIChat("too late", "gpt-3.5-turbo"),
		Delay:      delay,
	}
}

// JSONEqual reports whether body and want encode to the same JSON document.
func JSONEqual(body []byte, want any) error {
	var got any
	if err := json.Unmarshal(body, &got); err != nil {
		return fmt.Errorf("decode request body: %w", err)
	}

	gotJSON, _ := json.Marshal(got)
	wantJSON, _ := json.Marshal(want)
	if !bytes.Equal(gotJSON, wantJSON) {
		return fmt.Errorf("request body\n got: %s\nwant: %s", gotJSON, wantJSON)
	}
	return nil
}

// HeaderContains checks that header key contains value.
func HeaderContains(h http.Header, key, value string) error {
	if got := h.Get(key); !strings.Contains(got, value) {
		return fmt.Errorf("header %s = %q, want it to contain %q", key, got, value)
	}
	return nil
}
