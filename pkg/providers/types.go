package providers

import "time"

// Message is one turn of a conversation in the relay's neutral form. Each
// adapter maps it onto its own wire format.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TokenUsage is the token accounting an upstream reports for one call.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest asks a provider for the next assistant turn.
//
// An empty Model selects the adapter's configured model. Zero Temperature and
// MaxTokens leave the upstream defaults in place.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// CompletionResponse is an upstream reply normalized across providers.
// ID and Created are zero when the upstream does not report them.
type CompletionResponse struct {
	ID           string     `json:"id"`
	Model        string     `json:"model"`
	Content      string     `json:"content"`
	FinishReason string     `json:"finish_reason"`
	Usage        TokenUsage `json:"usage"`
	Created      int64      `json:"created"`
}

// ProviderHealth summarizes the outcomes recorded for one provider.
type ProviderHealth struct {
	IsHealthy bool      `json:"healthy"`
	LastCheck time.Time `json:"last_check"`

	// LastError is nil after a success.
	LastError error `json:"-"`

	ConsecutiveFailures   int       `json:"consecutive_failures"`
	LastSuccessfulRequest time.Time `json:"last_successful_request"`
	TotalRequests         int64     `json:"total_requests"`
	FailedRequests        int64     `json:"failed_requests"`
}

// ProviderConfig is what an adapter needs from the providers section of the
// configuration. APIKey is already resolved when it gets here.
type ProviderConfig struct {
	Name        string
	Type        string
	DisplayName string
	BaseURL     string
	APIKey      string
	Model       string

	// Timeout bounds a single attempt; MaxRetries extra attempts follow a
	// transient failure.
	Timeout    time.Duration
	MaxRetries int

	// Temperature and MaxTokens go out with every request built by
	// NewRequest. Zero leaves the upstream default in place.
	Temperature float64
	MaxTokens   int

	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// NewRequest builds a request carrying the configured model and sampling
// settings.
func (c ProviderConfig) NewRequest(msgs ...Message) *CompletionRequest {
	return &CompletionRequest{
		Model:       c.Model,
		Messages:    msgs,
		Temperature: c.Temperature,
		MaxTokens:   c.MaxTokens,
	}
}

// Label returns the display name, or the name when none is configured.
func (c ProviderConfig) Label() string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Provider type constants
const (
	TypeOpenAI = "openai"
	TypeGemini = "gemini"
)

// Finish reason constants
const (
	FinishReasonStop          = "stop"
	FinishReasonLength        = "length"
	FinishReasonContentFilter = "content_filter"
)
