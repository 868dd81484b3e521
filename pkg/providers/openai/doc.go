// Package openai is the primary provider: an adapter for the OpenAI
// chat-completions API and any server that speaks it.
//
// Each support turn becomes one POST to {base_url}/chat/completions carrying
// the system preamble and the customer's latest message, authenticated with
// a bearer token:
//
//	p, err := openai.NewProvider(providers.ProviderConfig{
//		Name:    "openai",
//		BaseURL: openai.DefaultBaseURL,
//		APIKey:  key,
//	})
//
// The reply is the first choice's message content. A 2xx body without one
// fails as providers.KindMalformedResponse; any other status fails as
// providers.KindUpstreamRejected with OpenAI's error.message attached.
package openai
