// Package logging provides structured logging with secret redaction.
//
// # Overview
//
// The logging package builds a log/slog logger whose handler:
//   - writes JSON or text records at a configurable level
//   - redacts API keys, bearer tokens, key= query parameters and email
//     addresses from every string attribute and error
//   - adds request_id, session_id and provider from the context
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	    Redact: true,
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
//	ctx = logging.WithRequestID(ctx, "req-123")
//	slog.InfoContext(ctx, "upstream rejected",
//	    "error", err, // "Bearer sk-abc" is logged as "Bearer ***"
//	)
//
// Context fields are only picked up by the *Context logging methods.
package logging
