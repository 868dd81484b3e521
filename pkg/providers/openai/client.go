package openai

import (
	"context"
	"net/http"

	"mercator-hq/helpdesk/pkg/providers"
)

// Provider is the OpenAI provider adapter.
// It implements the providers.Provider interface for the chat completions API.
type Provider struct {
	*providers.HTTPProvider
}

const (
	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"

	// DefaultModel is the model used when neither config nor request sets one.
	DefaultModel = "gpt-3.5-turbo"
)

// NewProvider builds the OpenAI adapter from config.
func NewProvider(config providers.ProviderConfig) (*Provider, error) {
	base, err := providers.NewAdapterBase(config, providers.AdapterDefaults{
		Type:    providers.TypeOpenAI,
		BaseURL: DefaultBaseURL,
		Model:   DefaultModel,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{HTTPProvider: base}, nil
}

// SendCompletion sends a chat completion request to OpenAI.
func (p *Provider) SendCompletion(ctx context.Context, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	cfg := p.GetConfig()
	body := newChatRequest(req, cfg.Model)

	url := cfg.BaseURL + "/chat/completions"
	headers := map[string]string{
		"Authorization": "Bearer " + cfg.APIKey,
		"Content-Type":  "application/json",
	}

	var reply chatResponse
	if err := p.DoJSONRequest(ctx, http.MethodPost, url, body, &reply, headers); err != nil {
		return nil, err
	}

	resp, err := reply.completion()
	if err != nil {
		return nil, p.Malformed(err)
	}
	return p.Completed(resp), nil
}

// validateRequest validates the completion request.
func validateRequest(req *providers.CompletionRequest) error {
	if req == nil {
		return &providers.ValidationError{
			Field:   "request",
			Message: "request cannot be nil",
		}
	}

	if len(req.Messages) == 0 {
		return &providers.ValidationError{
			Field:   "messages",
			Message: "at least one message is required",
		}
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case providers.RoleSystem, providers.RoleUser, providers.RoleAssistant:
		default:
			return &providers.ValidationError{
				Field:   "messages.role",
				Message: "unsupported role " + msg.Role,
			}
		}
	}

	return nil
}
