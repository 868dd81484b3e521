// Package conversation holds the chat transcript and its cookie encoding.
//
// The server keeps no conversation state. Each turn the client sends the
// transcript back in a cookie, the handler decodes and parses it, appends the
// new user and AI turns, and re-encodes it for the response.
//
// # Wire Format
//
// A transcript is newline-delimited text where every turn starts with a role
// label:
//
//	System: You are a customer support agent. ...
//	User: Hi
//	AI: Hello, how can I help?
//
// Lines without a label continue the previous turn. The encoded cookie value
// is standard base64 of the raw bytes, so Decode(Encode(s)) == s for any
// string.
package conversation
