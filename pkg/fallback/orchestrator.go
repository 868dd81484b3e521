package fallback

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"mercator-hq/helpdesk/pkg/providers"
	"mercator-hq/helpdesk/pkg/telemetry/logging"
)

// Recorder receives provider call outcomes. *metrics.Collector implements it.
type Recorder interface {
	RecordProviderRequest(provider string, latency time.Duration, kind string)
	UpdateProviderHealth(provider string, healthy bool)
	RecordFallbackEscalation()
}

// Options configures an Orchestrator.
type Options struct {
	// Logger receives escalation logs (defaults to slog.Default())
	Logger *slog.Logger

	// Recorder receives per-call metrics (optional)
	Recorder Recorder
}

// Result is the outcome of a turn that produced a reply.
type Result struct {
	// Text is the reply shown to the user
	Text string

	// UsedFallback is true when the fallback provider produced the reply
	UsedFallback bool

	// Provider is the name of the provider that produced the reply
	Provider string

	// ProviderLabel is the display name of that provider
	ProviderLabel string

	// PrimaryError is the primary provider's error when UsedFallback is true
	PrimaryError error

	// Response is the normalized provider response
	Response *providers.CompletionResponse
}

// Orchestrator sends a turn to the primary provider and escalates to the
// fallback provider on failure. It is safe for concurrent use.
type Orchestrator struct {
	primary  providers.Provider
	fallback providers.Provider
	logger   *slog.Logger
	recorder Recorder
}

// NewOrchestrator creates an orchestrator over the two providers.
func NewOrchestrator(primary, fallback providers.Provider, opts Options) (*Orchestrator, error) {
	if primary == nil {
		return nil, errors.New("primary provider is required")
	}
	if fallback == nil {
		return nil, errors.New("fallback provider is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Orchestrator{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		recorder: opts.Recorder,
	}, nil
}

// Primary returns the primary provider.
func (o *Orchestrator) Primary() providers.Provider {
	return o.primary
}

// Fallback returns the fallback provider.
func (o *Orchestrator) Fallback() providers.Provider {
	return o.fallback
}

// Run produces a reply for one turn.
//
// systemPrompt and userMessage form the primary request. conversation is the
// full transcript text sent to the fallback as a single prompt. When both
// providers fail the error is a *BothProvidersFailedError.
func (o *Orchestrator) Run(ctx context.Context, systemPrompt, userMessage, conversation string) (*Result, error) {
	msgs := make([]providers.Message, 0, 2)
	if systemPrompt != "" {
		msgs = append(msgs, providers.Message{Role: providers.RoleSystem, Content: systemPrompt})
	}
	msgs = append(msgs, providers.Message{Role: providers.RoleUser, Content: userMessage})
	primaryReq := o.primary.GetConfig().NewRequest(msgs...)

	resp, primaryErr := o.call(ctx, o.primary, primaryReq)
	if primaryErr == nil {
		return &Result{
			Text:          resp.Content,
			Provider:      o.primary.GetName(),
			ProviderLabel: o.primary.GetConfig().Label(),
			Response:      resp,
		}, nil
	}

	attrs := []any{
		"primary", o.primary.GetName(),
		"fallback", o.fallback.GetName(),
		"kind", string(providers.KindOf(primaryErr)),
		"error", primaryErr,
	}
	if d := providers.RetryAfterOf(primaryErr); d > 0 {
		attrs = append(attrs, "retry_after", d)
	}
	o.logger.WarnContext(ctx, "primary provider failed, escalating to fallback", attrs...)
	if o.recorder != nil {
		o.recorder.RecordFallbackEscalation()
	}

	fallbackReq := o.fallback.GetConfig().NewRequest(providers.Message{
		Role:    providers.RoleUser,
		Content: conversation,
	})

	resp, fallbackErr := o.call(ctx, o.fallback, fallbackReq)
	if fallbackErr != nil {
		o.logger.ErrorContext(ctx, "fallback provider also failed",
			"fallback", o.fallback.GetName(),
			"kind", string(providers.KindOf(fallbackErr)),
			"primary_error", primaryErr,
			"fallback_error", fallbackErr,
		)
		return nil, &BothProvidersFailedError{
			Primary:       o.primary.GetConfig().Label(),
			Fallback:      o.fallback.GetConfig().Label(),
			PrimaryError:  primaryErr,
			FallbackError: fallbackErr,
		}
	}

	o.logger.InfoContext(ctx, "fallback provider succeeded after primary failure",
		"fallback", o.fallback.GetName(),
	)

	return &Result{
		Text:          resp.Content,
		UsedFallback:  true,
		Provider:      o.fallback.GetName(),
		ProviderLabel: o.fallback.GetConfig().Label(),
		PrimaryError:  primaryErr,
		Response:      resp,
	}, nil
}

// call performs one logical provider call and records its outcome.
func (o *Orchestrator) call(ctx context.Context, p providers.Provider, req *providers.CompletionRequest) (*providers.CompletionResponse, error) {
	ctx = logging.WithProvider(ctx, p.GetName())

	start := time.Now()
	resp, err := p.SendCompletion(ctx, req)
	latency := time.Since(start)

	if err == nil && resp == nil {
		err = providers.NewMalformedError(p.GetName(), "empty response", nil)
	}

	if o.recorder != nil {
		kind := ""
		if err != nil {
			kind = errorKind(err)
		}
		o.recorder.RecordProviderRequest(p.GetName(), latency, kind)
		o.recorder.UpdateProviderHealth(p.GetName(), p.IsHealthy())
	}

	if err != nil {
		return nil, err
	}

	o.logger.DebugContext(ctx, "provider call succeeded",
		"model", resp.Model,
		"finish_reason", resp.FinishReason,
		"latency_ms", latency.Milliseconds(),
		"total_tokens", resp.Usage.TotalTokens,
	)
	return resp, nil
}

// errorKind labels an error for metrics. Request validation failures never
// reach the network and are labelled "invalid_request".
func errorKind(err error) string {
	if kind := providers.KindOf(err); kind != "" {
		return string(kind)
	}
	var ve *providers.ValidationError
	if errors.As(err, &ve) {
		return "invalid_request"
	}
	return "unknown"
}
