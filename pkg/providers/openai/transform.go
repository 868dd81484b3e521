package openai

import (
	"errors"

	"mercator-hq/helpdesk/pkg/providers"
)

// chatRequest is the body of POST /chat/completions.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse holds the parts of a chat.completion object the relay reads.
type chatResponse struct {
	ID      string `json:"id"`
	Created int64  `json:"created"`
	Model   string `json:"model"`
	Choices []struct {
		Message      chatMessage `json:"message"`
		FinishReason string      `json:"finish_reason"`
	} `json:"choices"`
	Usage providers.TokenUsage `json:"usage"`
}

var (
	errNoChoices    = errors.New("no choices in response")
	errEmptyContent = errors.New("first choice has no content")
)

// newChatRequest maps req onto the wire format. OpenAI roles match the
// relay's, so messages copy across unchanged.
func newChatRequest(req *providers.CompletionRequest, defaultModel string) chatRequest {
	out := chatRequest{
		Model:       req.Model,
		Messages:    make([]chatMessage, 0, len(req.Messages)),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}
	if out.Model == "" {
		out.Model = defaultModel
	}
	for _, m := range req.Messages {
		out.Messages = append(out.Messages, chatMessage(m))
	}
	return out
}

// completion takes the reply from the first choice. OpenAI finish reasons
// are already the relay's values.
func (r *chatResponse) completion() (*providers.CompletionResponse, error) {
	if len(r.Choices) == 0 {
		return nil, errNoChoices
	}
	first := r.Choices[0]
	if first.Message.Content == "" {
		return nil, errEmptyContent
	}

	return &providers.CompletionResponse{
		ID:           r.ID,
		Model:        r.Model,
		Content:      first.Message.Content,
		FinishReason: first.FinishReason,
		Usage:        r.Usage,
		Created:      r.Created,
	}, nil
}
