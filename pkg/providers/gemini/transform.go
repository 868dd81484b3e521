package gemini

import (
	"fmt"
	"strings"

	"mercator-hq/helpdesk/pkg/providers"
)

// Gemini API request/response types

// GeminiRequest represents a generateContent request.
type GeminiRequest struct {
	Contents          []GeminiContent         `json:"contents"`
	SystemInstruction *GeminiContent          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GeminiGenerationConfig `json:"generationConfig,omitempty"`
}

// GeminiContent is one turn of content.
type GeminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []GeminiPart `json:"parts"`
}

// GeminiPart is a piece of content. Only text parts are used.
type GeminiPart struct {
	Text string `json:"text"`
}

// GeminiGenerationConfig holds sampling settings.
type GeminiGenerationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

// GeminiResponse represents a generateContent response.
type GeminiResponse struct {
	Candidates     []GeminiCandidate     `json:"candidates"`
	PromptFeedback *GeminiPromptFeedback `json:"promptFeedback,omitempty"`
	UsageMetadata  GeminiUsage           `json:"usageMetadata"`
	ModelVersion   string                `json:"modelVersion"`
	ResponseID     string                `json:"responseId"`
}

// GeminiCandidate is one generated answer.
type GeminiCandidate struct {
	Content      *GeminiContent `json:"content"`
	FinishReason string         `json:"finishReason"`
	Index        int            `json:"index"`
}

// GeminiPromptFeedback reports whether the prompt was blocked.
type GeminiPromptFeedback struct {
	BlockReason string `json:"blockReason"`
}

// GeminiUsage represents token usage in Gemini format.
type GeminiUsage struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// Transformation functions

// transformRequest transforms a provider-agnostic request to Gemini format.
func transformRequest(req *providers.CompletionRequest) *GeminiRequest {
	geminiReq := &GeminiRequest{}

	var system []string
	for _, msg := range req.Messages {
		switch msg.Role {
		case providers.RoleSystem:
			system = append(system, msg.Content)
		case providers.RoleAssistant:
			geminiReq.Contents = append(geminiReq.Contents, GeminiContent{
				Role:  "model",
				Parts: []GeminiPart{{Text: msg.Content}},
			})
		default:
			geminiReq.Contents = append(geminiReq.Contents, GeminiContent{
				Role:  "user",
				Parts: []GeminiPart{{Text: msg.Content}},
			})
		}
	}

	// A lone prompt is sent in its plain form, without a role.
	if len(geminiReq.Contents) == 1 && geminiReq.Contents[0].Role == "user" {
		geminiReq.Contents[0].Role = ""
	}

	if len(system) > 0 {
		geminiReq.SystemInstruction = &GeminiContent{
			Parts: []GeminiPart{{Text: strings.Join(system, "\n")}},
		}
	}

	if req.Temperature != 0 || req.MaxTokens != 0 {
		geminiReq.GenerationConfig = &GeminiGenerationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		}
	}

	return geminiReq
}

// transformResponse transforms a Gemini response to provider-agnostic format.
func transformResponse(resp *GeminiResponse, model string) (*providers.CompletionResponse, error) {
	if len(resp.Candidates) == 0 {
		if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
			return nil, fmt.Errorf("prompt blocked: %s", resp.PromptFeedback.BlockReason)
		}
		return nil, fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return nil, fmt.Errorf("first candidate has no content parts (finish reason %q)", candidate.FinishReason)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		sb.WriteString(part.Text)
	}
	if sb.Len() == 0 {
		return nil, fmt.Errorf("first candidate has no text")
	}

	if resp.ModelVersion != "" {
		model = resp.ModelVersion
	}

	return &providers.CompletionResponse{
		ID:           resp.ResponseID,
		Model:        model,
		Content:      sb.String(),
		FinishReason: normalizeFinishReason(candidate.FinishReason),
		Usage: providers.TokenUsage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
	}, nil
}

// normalizeFinishReason maps Gemini finish reasons to provider-agnostic values.
func normalizeFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return providers.FinishReasonStop
	case "MAX_TOKENS":
		return providers.FinishReasonLength
	case "SAFETY", "RECITATION", "BLOCKLIST", "PROHIBITED_CONTENT":
		return providers.FinishReasonContentFilter
	default:
		return strings.ToLower(reason)
	}
}
