package gemini

import (
	"context"
	"net/http"
	"net/url"

	"mercator-hq/helpdesk/pkg/providers"
)

// Provider is the Gemini provider adapter.
// It implements the providers.Provider interface for the generateContent API.
type Provider struct {
	*providers.HTTPProvider
}

const (
	// DefaultBaseURL is the public Generative Language API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

	// DefaultModel is the model used when neither config nor request sets one.
	DefaultModel = "gemini-pro"
)

// NewProvider builds the Gemini adapter from config.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	base, err := providers.NewAdapterBase(config, providers.AdapterDefaults{
		Type:    providers.TypeGemini,
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{HTTPProvider: base}, nil
}

// SendCompletion sends a generateContent request to Gemini.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = p.GetConfig().Model
	}

	geminiReq := transformRequest(req)

	var geminiResp GeminiResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, p.endpoint(model), geminiReq, &geminiResp, p.headers()); err != nil {
		return nil, err
	}

	resp, err := transformResponse(&geminiResp, model)
	if err != nil {
		return nil, p.Malformed(err)
	}
	return p.Completed(resp), nil
}

// endpoint returns the generateContent URL for model.
func (p *Provider) endpoint(model string) string {
	return p.GetConfig().BaseURL + "/models/" + url.PathEscape(model) + ":generateContent"
}

// apiKeyHeader carries the API key. The URL stays free of credentials.
const apiKeyHeader = "x-goog-api-key"

func (p *Provider) headers() map[string]string {
	key := p.GetConfig().APIKey
	if key == "" {
		return nil
	}
	return map[string]string{apiKeyHeader: key}
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	for _, msg := range req.Messages {
		if msg.Role != providers.RoleSystem {
			return nil
		}
	}

	return &providers.ValidationError{
		Field:   "messages",
		Message: "at least one user message is required",
	}
}
