package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"mercator-hq/helpdesk/pkg/config"
)

// Config describes the process logger.
type Config struct {
	Level     string // debug, info, warn or error; empty means info
	Format    string // json or text; empty means json
	AddSource bool

	// Redact scrubs secrets and contact details from every record, using the
	// built-in patterns plus RedactPatterns.
	Redact         bool
	RedactPatterns []config.RedactPattern

	// Writer defaults to os.Stderr.
	Writer io.Writer
}

// ConfigFrom maps the telemetry.logging section onto a Config.
func ConfigFrom(cfg config.LoggingConfig, w io.Writer) Config {
	return Config{
		Level:          cfg.Level,
		Format:         cfg.Format,
		AddSource:      cfg.AddSource,
		Redact:         cfg.ShouldRedact(),
		RedactPatterns: cfg.RedactPatterns,
		Writer:         w,
	}
}

// New builds a logger from cfg.
func New(cfg Config) (*slog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	w := cfg.Writer
	if w == nil {
		w = os.Stderr
	}
	inner, err := formatHandler(cfg.Format, w, &slog.HandlerOptions{Level: level, AddSource: cfg.AddSource})
	if err != nil {
		return nil, fmt.Errorf("invalid log format: %w", err)
	}

	var r *Redactor
	if cfg.Redact {
		r = NewRedactor(cfg.RedactPatterns)
	}
	return slog.New(NewHandler(inner, r)), nil
}

// Setup is New followed by slog.SetDefault.
func Setup(cfg Config) (*slog.Logger, error) {
	logger, err := New(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

// ParseLevel accepts the level names used in configuration, case-insensitively.
// "warning" is an alias for warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level: %s", s)
}

func formatHandler(format string, w io.Writer, opts *slog.HandlerOptions) (slog.Handler, error) {
	switch strings.ToLower(format) {
	case "", "json":
		return slog.NewJSONHandler(w, opts), nil
	case "text", "console":
		return slog.NewTextHandler(w, opts), nil
	}
	return nil, fmt.Errorf("unknown log format: %s", format)
}
