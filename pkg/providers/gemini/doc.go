// Package gemini implements the Google Gemini generateContent provider adapter.
//
// The relay uses Gemini as its fallback provider. It receives the whole
// conversation as one free-text prompt:
//
//	POST {base_url}/models/{model}:generateContent
//	x-goog-api-key: {api_key}
//	{"contents": [{"parts": [{"text": "System: ...\nUser: Hi\nAI:"}]}]}
//
// The reply is the concatenated text of the first candidate's parts. A 2xx
// response with no candidates, no parts, or a blocked prompt is reported as
// providers.KindMalformedResponse.
//
// Structured requests are supported too: system messages become the
// systemInstruction and assistant messages are sent with the "model" role.
package gemini
