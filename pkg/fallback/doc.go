// Package fallback runs one chat turn against the primary provider and
// escalates to the fallback provider when the primary fails.
//
// # Escalation contract
//
// Run makes exactly one call to the primary provider. Any error from it,
// whatever its kind, leads to exactly one call to the fallback provider.
// The primary is never called again for the same turn, so a turn costs one
// or two upstream calls and never more. Bounded retries inside a single
// provider (see providers.ProviderConfig.MaxRetries) are part of that one
// logical call.
//
// The two providers receive differently shaped prompts:
//
//   - primary: a system message carrying the preamble and a user message
//     carrying the new turn
//   - fallback: one free-text user message holding the whole conversation,
//     ending in "AI:" so the model continues as the agent
//
// # Usage
//
//	orch, err := fallback.NewOrchestrator(primary, secondary, fallback.Options{
//	    Logger:   slog.Default(),
//	    Recorder: collector,
//	})
//	result, err := orch.Run(ctx, transcript.SystemPrompt(), message, transcript.Prompt())
//	var both *fallback.BothProvidersFailedError
//	if errors.As(err, &both) {
//	    // terminal for the request
//	}
package fallback
