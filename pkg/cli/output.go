package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// OutputFormat is the value of a command's --output flag.
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// ParseOutputFormat validates a --output value. Empty means text.
func ParseOutputFormat(s string) (OutputFormat, error) {
	f := OutputFormat(strings.ToLower(s))
	switch f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON:
		return f, nil
	}
	return "", fmt.Errorf("unsupported output format %q (must be text or json)", s)
}

// Formatter renders a command result.
type Formatter interface {
	Write(w io.Writer, v any) error
}

// NewFormatter returns the formatter for format. Unknown formats render as
// text; validate flags with ParseOutputFormat first.
func NewFormatter(format OutputFormat) Formatter {
	if format == FormatJSON {
		return JSONFormatter{Indent: true}
	}
	return TextFormatter{}
}

// TextFormatter prints v with %v, so a fmt.Stringer controls its own text.
// Output always ends in exactly one newline.
type TextFormatter struct{}

func (TextFormatter) Write(w io.Writer, v any) error {
	s := fmt.Sprint(v)
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	_, err := io.WriteString(w, s)
	return err
}

// JSONFormatter encodes v as a single JSON document.
type JSONFormatter struct {
	Indent bool
}

func (f JSONFormatter) Write(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	if f.Indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}
