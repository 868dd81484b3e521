package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	defaultBackoffBase = time.Second
	maxBackoff         = 8 * time.Second

	// maxResponseBytes caps how much of any upstream body is read.
	maxResponseBytes = 10 << 20
)

// HTTPProvider carries what the OpenAI and Gemini adapters share: a pooled
// client, bounded retries, error classification and outcome tracking. The
// adapters embed it and supply SendCompletion.
type HTTPProvider struct {
	config      ProviderConfig
	client      *http.Client
	backoffBase time.Duration

	healthMu sync.RWMutex
	health   ProviderHealth
}

// NewHTTPProvider builds the shared client. config.Timeout bounds each
// attempt; an attempt that runs out of time is KindUnreachable.
func NewHTTPProvider(config ProviderConfig) *HTTPProvider {
	return &HTTPProvider{
		config: config,
		client: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				ForceAttemptHTTP2:   true,
				MaxIdleConns:        config.MaxIdleConns,
				MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
				IdleConnTimeout:     config.IdleConnTimeout,
			},
		},
		backoffBase: defaultBackoffBase,
		health:      ProviderHealth{IsHealthy: true, LastCheck: time.Now()},
	}
}

func (p *HTTPProvider) GetName() string { return p.config.Name }

func (p *HTTPProvider) GetType() string { return p.config.Type }

func (p *HTTPProvider) GetConfig() ProviderConfig { return p.config }

// DoRequest sends one logical request. Transport failures and 5xx answers
// are retried up to MaxRetries times with exponential backoff; other non-2xx
// answers are final. On success the caller owns the 2xx response body.
// Errors are always *ProviderError.
func (p *HTTPProvider) DoRequest(ctx context.Context, method, target string, body []byte, headers map[string]string) (*http.Response, error) {
	var lastErr *ProviderError

	for attempt := 0; attempt <= p.config.MaxRetries; attempt++ {
		if attempt > 0 {
			if !p.wait(ctx, attempt) {
				break
			}
		}

		resp, perr, retry := p.attempt(ctx, method, target, body, headers)
		if perr == nil {
			p.recordOutcome(nil)
			return resp, nil
		}
		lastErr = perr
		if !retry || attempt == p.config.MaxRetries {
			break
		}

		slog.Warn("provider attempt failed, retrying",
			"provider", p.config.Name,
			"attempt", attempt+1,
			"error", perr,
		)
	}

	p.recordOutcome(lastErr)
	return nil, lastErr
}

// wait sleeps before a retry. It reports false if ctx ended first.
func (p *HTTPProvider) wait(ctx context.Context, attempt int) bool {
	d := p.backoff(attempt)
	slog.Debug("retrying provider request",
		"provider", p.config.Name,
		"attempt", attempt,
		"max_retries", p.config.MaxRetries,
		"backoff", d,
	)

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// attempt performs a single round trip. retry reports whether another
// attempt could succeed.
func (p *HTTPProvider) attempt(ctx context.Context, method, target string, body []byte, headers map[string]string) (resp *http.Response, perr *ProviderError, retry bool) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &ProviderError{
			Provider: p.config.Name,
			Kind:     KindUnreachable,
			Message:  "failed to create request",
			Cause:    withoutQuery(err),
		}, false
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err = p.client.Do(req)
	if err != nil {
		// Once the caller's context is done, further attempts are pointless.
		return nil, &ProviderError{Provider: p.config.Name, Kind: KindUnreachable, Cause: withoutQuery(err)}, ctx.Err() == nil
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil, false
	}

	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))

	perr = &ProviderError{
		Provider:   p.config.Name,
		Kind:       KindUpstreamRejected,
		StatusCode: resp.StatusCode,
		Message:    upstreamMessage(raw),
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		perr.RetryAfter = parseRetryAfter(resp.Header.Get("Retry-After"))
	}
	return nil, perr, resp.StatusCode >= 500
}

// withoutQuery drops the query string from the URL a transport error
// carries, so credentials passed as parameters never reach an error message.
func withoutQuery(err error) error {
	var ue *url.Error
	if !errors.As(err, &ue) {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return &url.Error{Op: ue.Op, URL: "", Err: ue.Err}
	}
	u.RawQuery = ""
	u.User = nil
	return &url.Error{Op: ue.Op, URL: u.Redacted(), Err: ue.Err}
}

// DoJSONRequest encodes reqBody, sends it through DoRequest and decodes the
// 2xx answer into respBody. A 2xx body that cannot be read is
// KindUnreachable; one that is not JSON is KindMalformedResponse.
func (p *HTTPProvider) DoJSONRequest(ctx context.Context, method, target string, reqBody, respBody any, headers map[string]string) error {
	var payload []byte
	if reqBody != nil {
		var err error
		if payload, err = json.Marshal(reqBody); err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := p.DoRequest(ctx, method, target, payload, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		perr := &ProviderError{
			Provider: p.config.Name,
			Kind:     KindUnreachable,
			Message:  "failed to read response",
			Cause:    err,
		}
		p.RecordFailure(perr)
		return perr
	}
	if respBody == nil {
		return nil
	}
	if err := json.Unmarshal(raw, respBody); err != nil {
		perr := NewMalformedError(p.config.Name, "response body is not valid JSON", err)
		p.RecordFailure(perr)
		return perr
	}
	return nil
}

// Close drops idle connections.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	return nil
}

// backoff is the delay before retry number attempt, doubling from
// backoffBase up to maxBackoff.
func (p *HTTPProvider) backoff(attempt int) time.Duration {
	d := p.backoffBase << uint(attempt-1)
	if d <= 0 || d > maxBackoff {
		return maxBackoff
	}
	return d
}

// parseRetryAfter accepts delay-seconds or an HTTP date. Anything else, or a
// date in the past, yields zero.
func parseRetryAfter(v string) time.Duration {
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(v); err == nil {
		if d := time.Until(at); d > 0 {
			return d
		}
	}
	return 0
}
