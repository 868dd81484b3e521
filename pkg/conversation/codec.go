package conversation

import (
	"encoding/base64"
	"fmt"
)

// DecodeError is returned when a transcript cookie value is not valid base64.
// Callers treat it as an empty transcript.
type DecodeError struct {
	// Length is the length of the rejected token.
	Length int

	// Cause is the underlying decoding error.
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	return fmt.Sprintf("malformed transcript token (%d bytes): %v", e.Length, e.Cause)
}

// Unwrap returns the underlying decoding error.
func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// Encode converts transcript text into a cookie-safe token. It never fails.
func Encode(text string) string {
	return base64.StdEncoding.EncodeToString([]byte(text))
}

// Decode reverses Encode. Malformed or truncated tokens return a *DecodeError.
func Decode(token string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(token)
	if err != nil {
		return "", &DecodeError{Length: len(token), Cause: err}
	}
	return string(data), nil
}

// EncodedLen returns the length of Encode(text) without encoding it.
func EncodedLen(text string) int {
	return base64.StdEncoding.EncodedLen(len(text))
}
