// Package session manages the two cookies that carry a chat session: the
// session token and the encoded conversation transcript.
//
// The server holds no session state. The token is opaque: the relay mints a
// random UUID on the first turn and accepts any short URL-safe token a client
// already holds. The transcript lives in a cookie named after the token so a
// reset, which mints a new token, never sees the old transcript.
//
// Cookies:
//
//   - sessionId: the token, http-only, browser-session lifetime
//   - conversation-<token>: the encoded transcript, http-only, expires after
//     session.transcript_ttl (24h by default)
package session
