// Package handlers provides the HTTP handlers of the helpdesk relay.
//
// # Chat
//
// ChatHandler serves POST /chat. A body with "newChat": true expires the
// session cookies and replies {"response": "Chat reset"}. Any other body is a
// conversation turn:
//
//  1. Resolve the sessionId cookie, minting a token when it is absent or malformed
//  2. Decode the conversation-<id> cookie; an unreadable one starts a new transcript
//  3. Seed a new transcript with the system preamble built from userName and userProblem
//  4. Append the user message and ask the fallback orchestrator for a reply
//  5. Append the reply, trim the transcript to the cookie budget and set both cookies
//
// When both providers fail the handler answers 500 and sets no cookies, so
// the browser keeps the transcript it had before the turn.
//
// The orchestrator and cookie settings live in a Pipeline that SetPipeline
// swaps atomically when the configuration is reloaded.
//
// # Health
//
// HealthHandler is a liveness probe. ProviderHealthHandler reports each
// provider's request and failure counters:
//
//	GET /health/providers
//	{"status": "degraded", "providers": [{"name": "openai", "role": "primary", "healthy": false, ...}]}
package handlers
