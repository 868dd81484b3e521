package providers

import "context"

// Provider is one upstream LLM API. The relay holds two: the primary is
// asked first and the fallback answers when the primary fails.
//
// SendCompletion must return promptly once ctx is done. Requests an adapter
// cannot express fail with *ValidationError before any network traffic;
// every failure after that is a *ProviderError.
type Provider interface {
	SendCompletion(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// GetName is the configured name, used in logs and metric labels.
	GetName() string

	// GetType is the wire protocol, TypeOpenAI or TypeGemini.
	GetType() string

	GetConfig() ProviderConfig

	// IsHealthy and GetHealth describe recent outcomes for the health
	// endpoint. Routing never consults them.
	IsHealthy() bool
	GetHealth() ProviderHealth

	// Close drops idle upstream connections.
	Close() error
}
