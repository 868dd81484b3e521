package conversation

import (
	"errors"
	"strings"
	"testing"
)

func TestEncodeDecode_RoundTrip(t *testing.T) {
	inputs := []string{
		"",
		"User: Hi",
		"System: You are a customer support agent.\nUser: Hi\nAI: Hello",
		"ünïcödé ✓ 日本語 🚀",
		"line with trailing newline\n",
		"\x00\xff\xfe invalid utf-8 bytes",
		strings.Repeat("long transcript ", 500),
	}

	for _, input := range inputs {
		token := Encode(input)
		got, err := Decode(token)
		if err != nil {
			t.Fatalf("Decode(Encode(%q)) returned error: %v", input, err)
		}
		if got != input {
			t.Errorf("round trip mismatch: got %q, want %q", got, input)
		}
	}
}

func TestEncode_CookieSafe(t *testing.T) {
	token := Encode("User: a; b, c\nAI: \"quoted\"")
	if strings.ContainsAny(token, " ;,\"\n") {
		t.Errorf("token contains characters unsafe in a cookie value: %q", token)
	}
}

func TestDecode_Malformed(t *testing.T) {
	tokens := []string{
		"!!!not base64!!!",
		"VXNlcjogSGk", // truncated padding
		"%%%%",
	}

	for _, token := range tokens {
		_, err := Decode(token)
		var decodeErr *DecodeError
		if !errors.As(err, &decodeErr) {
			t.Fatalf("expected *DecodeError for %q, got %v", token, err)
		}
		if decodeErr.Length != len(token) {
			t.Errorf("expected length %d, got %d", len(token), decodeErr.Length)
		}
		if decodeErr.Unwrap() == nil {
			t.Error("expected underlying cause")
		}
	}
}

func TestEncodedLen(t *testing.T) {
	text := "System: preamble\nUser: hello"
	if EncodedLen(text) != len(Encode(text)) {
		t.Errorf("EncodedLen = %d, want %d", EncodedLen(text), len(Encode(text)))
	}
}
