// Package proxy holds the HTTP surface of the helpdesk relay: request
// parsing, response writing and error mapping shared by the handlers and
// middleware subpackages.
//
// # Architecture
//
//   - handlers: the chat endpoint (reset / turn state machine) and health endpoints
//   - middleware: request ID, logging, CORS, recovery and timeout
//   - types: JSON wire types of the chat endpoint
//
// # Request Flow
//
//  1. The middleware chain assigns a request ID and logs the request
//  2. ParseChatRequest decodes the body under the configured size limit
//  3. The chat handler resets the session or runs the turn through the
//     fallback orchestrator
//  4. FormatChatResponse builds the reply; HandleError maps failures
//
// # Error Handling
//
// Every error body has the shape {"error": "..."}:
//
//   - 400: malformed JSON or a turn without a message
//   - 405: any method other than POST on the chat route
//   - 413: request body over server.max_body_bytes
//   - 500: both providers failed, or an internal error
package proxy
