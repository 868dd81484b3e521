package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"mercator-hq/helpdesk/pkg/conversation"
	"mercator-hq/helpdesk/pkg/fallback"
	"mercator-hq/helpdesk/pkg/providers"
	"mercator-hq/helpdesk/pkg/proxy"
	"mercator-hq/helpdesk/pkg/proxy/middleware"
	"mercator-hq/helpdesk/pkg/proxy/types"
	"mercator-hq/helpdesk/pkg/session"
	"mercator-hq/helpdesk/pkg/telemetry/logging"
	"mercator-hq/helpdesk/pkg/telemetry/metrics"
)

// Pipeline is everything a chat turn needs that can change on config reload.
type Pipeline struct {
	// Orchestrator answers turns (required)
	Orchestrator *fallback.Orchestrator

	// Sessions reads and writes the session and transcript cookies (required)
	Sessions *session.Manager

	// MaxCookieBytes bounds the encoded transcript cookie value (0 disables trimming)
	MaxCookieBytes int

	// MaxBodyBytes bounds the request body (0 uses proxy.DefaultMaxRequestBodySize)
	MaxBodyBytes int64
}

// ChatHandler serves the chat endpoint. Each POST either resets the session
// or runs one conversation turn.
type ChatHandler struct {
	pipeline atomic.Pointer[Pipeline]
	metrics  *metrics.Collector
	logger   *slog.Logger
}

// NewChatHandler creates a chat handler. collector and logger may be nil.
func NewChatHandler(p *Pipeline, collector *metrics.Collector, logger *slog.Logger) (*ChatHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	h := &ChatHandler{metrics: collector, logger: logger}
	if err := h.SetPipeline(p); err != nil {
		return nil, err
	}
	return h, nil
}

// SetPipeline swaps the pipeline used by subsequent requests. Requests
// already in flight finish on the pipeline they started with.
func (h *ChatHandler) SetPipeline(p *Pipeline) error {
	if p == nil || p.Orchestrator == nil || p.Sessions == nil {
		return errors.New("chat pipeline requires an orchestrator and a session manager")
	}
	h.pipeline.Store(p)
	return nil
}

// Pipeline returns the pipeline currently in use.
func (h *ChatHandler) Pipeline() *Pipeline {
	return h.pipeline.Load()
}

// Providers returns the current pipeline's providers, primary first.
func (h *ChatHandler) Providers() []providers.Provider {
	orch := h.pipeline.Load().Orchestrator
	return []providers.Provider{orch.Primary(), orch.Fallback()}
}

// ServeHTTP implements http.Handler.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		proxy.WriteErrorResponse(w, types.NewMethodNotAllowedError(r.Method))
		h.finish(r, metrics.OutcomeInvalid, start)
		return
	}

	p := h.pipeline.Load()

	req, err := proxy.ParseChatRequest(w, r, p.MaxBodyBytes)
	if err != nil {
		h.logger.WarnContext(r.Context(), "rejected chat request", "error", err)
		proxy.WriteErrorResponse(w, proxy.HandleError(err))
		h.finish(r, metrics.OutcomeInvalid, start)
		return
	}

	if req.NewChat {
		h.reset(w, r, p)
		h.finish(r, metrics.OutcomeReset, start)
		return
	}

	h.finish(r, h.turn(w, r, p, req), start)
}

// finish records the outcome in metrics and on the request log line.
func (h *ChatHandler) finish(r *http.Request, outcome string, start time.Time) {
	h.metrics.RecordChatRequest(outcome, time.Since(start))
	middleware.Annotate(r.Context(), "outcome", outcome)
}

// reset expires the session cookies. It succeeds with or without a session.
func (h *ChatHandler) reset(w http.ResponseWriter, r *http.Request, p *Pipeline) {
	token := p.Sessions.Clear(w, r)

	h.logger.InfoContext(logging.WithSessionID(r.Context(), token), "chat reset")

	if err := proxy.WriteJSONResponse(w, http.StatusOK, types.NewResetResponse()); err != nil {
		h.logger.Error("failed to write reset response", "error", err)
	}
}

// turn runs one conversation turn and returns its metrics outcome. Cookies
// are written only when a reply was produced.
func (h *ChatHandler) turn(w http.ResponseWriter, r *http.Request, p *Pipeline, req *types.ChatRequest) string {
	token, minted := p.Sessions.Resolve(r)
	ctx := logging.WithSessionID(r.Context(), token)

	transcript, err := conversation.Load(p.Sessions.Transcript(r, token))
	if err != nil {
		h.metrics.RecordTranscriptDecodeError()
		h.logger.WarnContext(ctx, "discarding unreadable transcript cookie", "error", err)
	}

	if transcript.IsEmpty() {
		transcript.Append(conversation.RoleSystem, conversation.Preamble(req.UserName, req.UserProblem))
	}
	transcript.Append(conversation.RoleUser, req.Message)

	h.logger.DebugContext(ctx, "processing chat turn",
		"new_session", minted,
		"turns", len(transcript.Turns),
	)

	result, err := p.Orchestrator.Run(ctx, transcript.SystemPrompt(), req.Message, transcript.Prompt())
	if err != nil {
		h.logger.ErrorContext(ctx, "chat turn failed", "error", err)
		proxy.WriteErrorResponse(w, proxy.HandleError(err))
		return metrics.OutcomeFailed
	}

	transcript.Append(conversation.RoleAI, result.Text)

	dropped, fits := transcript.Fit(p.MaxCookieBytes)
	if dropped > 0 {
		h.metrics.RecordTrimmedTurns(dropped)
		h.logger.InfoContext(ctx, "trimmed transcript to fit cookie", "dropped_turns", dropped)
	}
	if !fits {
		h.logger.WarnContext(ctx, "transcript exceeds cookie budget after trimming",
			"max_cookie_bytes", p.MaxCookieBytes,
		)
	}

	p.Sessions.Set(w, token, transcript.Encode())

	if err := proxy.WriteJSONResponse(w, http.StatusOK, proxy.FormatChatResponse(result)); err != nil {
		h.logger.ErrorContext(ctx, "failed to write chat response", "error", err)
	}

	h.logger.InfoContext(ctx, "chat turn completed",
		"provider", result.Provider,
		"used_fallback", result.UsedFallback,
	)
	middleware.Annotate(r.Context(), "provider", result.Provider)

	if result.UsedFallback {
		return metrics.OutcomeFallback
	}
	return metrics.OutcomePrimary
}
