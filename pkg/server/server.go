package server

import (
	"context"
	cryptotls "crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mercator-hq/helpdesk/pkg/config"
	"mercator-hq/helpdesk/pkg/fallback"
	"mercator-hq/helpdesk/pkg/providerfactory"
	"mercator-hq/helpdesk/pkg/proxy/handlers"
	"mercator-hq/helpdesk/pkg/proxy/middleware"
	servertls "mercator-hq/helpdesk/pkg/security/tls"
	"mercator-hq/helpdesk/pkg/session"
	"mercator-hq/helpdesk/pkg/telemetry/metrics"
)

// Routes served by the relay.
const (
	ChatPath            = "/chat"
	LegacyChatPath      = "/api/chat"
	HealthPath          = "/health"
	ProviderHealthPath  = "/health/providers"
	handlerTimeoutSlack = time.Second
)

// Options configures a Server.
type Options struct {
	// Logger receives server and request logs (defaults to slog.Default())
	Logger *slog.Logger

	// Metrics is the collector shared with the providers. When nil a
	// collector is created from the telemetry configuration.
	Metrics *metrics.Collector
}

// Server is the HTTP front of the helpdesk relay.
type Server struct {
	config  config.ServerConfig
	logger  *slog.Logger
	metrics *metrics.Collector
	chat    *handlers.ChatHandler
	handler http.Handler

	tlsConfig *cryptotls.Config
	certs     *servertls.CertificateReloader

	mu           sync.Mutex
	pair         *providerfactory.Pair
	httpServer   *http.Server
	listener     net.Listener
	isRunning    bool
	shutdownOnce sync.Once
}

// New builds the providers, the chat pipeline and the routes for cfg.
func New(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	collector := opts.Metrics
	if collector == nil {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	s := &Server{
		config:  cfg.Server,
		logger:  logger,
		metrics: collector,
	}

	if cfg.Server.TLS.Enabled {
		tlsConfig, certs, err := servertls.NewServerConfig(cfg.Server.TLS, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
		s.tlsConfig = tlsConfig
		s.certs = certs
	}

	pipeline, pair, err := s.buildPipeline(cfg)
	if err != nil {
		return nil, err
	}

	chat, err := handlers.NewChatHandler(pipeline, collector, logger)
	if err != nil {
		pair.Close()
		return nil, err
	}

	s.chat = chat
	s.pair = pair
	s.handler = s.setupRoutes(cfg.Telemetry.Metrics)

	return s, nil
}

// buildPipeline creates the providers and the chat pipeline for cfg.
func (s *Server) buildPipeline(cfg *config.Config) (*handlers.Pipeline, *providerfactory.Pair, error) {
	pair, err := providerfactory.NewPair(cfg.Providers)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create providers: %w", err)
	}

	orch, err := fallback.NewOrchestrator(pair.Primary, pair.Fallback, fallback.Options{
		Logger:   s.logger,
		Recorder: s.metrics,
	})
	if err != nil {
		pair.Close()
		return nil, nil, err
	}

	return &handlers.Pipeline{
		Orchestrator:   orch,
		Sessions:       session.NewManager(cfg.Session),
		MaxCookieBytes: cfg.Session.MaxCookieBytes,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
	}, pair, nil
}

// Reload swaps in providers and session settings from cfg. Requests in
// flight finish on the previous providers. Server settings (listen address,
// timeouts, CORS) and telemetry settings apply only after a restart.
func (s *Server) Reload(cfg *config.Config) error {
	pipeline, pair, err := s.buildPipeline(cfg)
	if err != nil {
		return err
	}
	if err := s.chat.SetPipeline(pipeline); err != nil {
		pair.Close()
		return err
	}

	s.mu.Lock()
	old := s.pair
	s.pair = pair
	s.mu.Unlock()

	if cfg.Server.ListenAddress != s.config.ListenAddress {
		s.logger.Warn("listen address change requires a restart",
			"current", s.config.ListenAddress,
			"configured", cfg.Server.ListenAddress,
		)
	}

	s.logger.Info("provider pipeline reloaded",
		"primary", pair.Primary.GetName(),
		"fallback", pair.Fallback.GetName(),
	)

	// Idle connections only; in-flight requests keep their own.
	if old != nil {
		if err := old.Close(); err != nil {
			s.logger.Warn("failed to close previous providers", "error", err)
		}
	}
	return nil
}

// Handler returns the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled or the server fails.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server is already running")
	}
	if s.tlsConfig != nil {
		ln = cryptotls.NewListener(ln, s.tlsConfig)
		go s.certs.Run(ctx)
	}
	s.isRunning = true
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.handler,
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting helpdesk server", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		s.Shutdown(context.Background())
		return err
	}
}

// Scheme returns "https" when TLS is enabled and "http" otherwise.
func (s *Server) Scheme() string {
	if s.tlsConfig != nil {
		return "https"
	}
	return "http"
}

// Addr returns the address the server is listening on, or "" before Serve.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the server and releases the providers.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		httpServer := s.httpServer
		pair := s.pair
		s.mu.Unlock()

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		if httpServer != nil {
			shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()

			if err := httpServer.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		if pair != nil {
			if err := pair.Close(); err != nil {
				s.logger.Warn("failed to close providers", "error", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("helpdesk server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isRunning
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes(metricsCfg config.MetricsConfig) http.Handler {
	mux := http.NewServeMux()

	mux.Handle(ChatPath, s.chat)
	mux.Handle(LegacyChatPath, s.chat)
	mux.Handle(HealthPath, handlers.NewHealthHandler())
	mux.Handle(ProviderHealthPath, handlers.NewProviderHealthHandler(s.chat.Providers, s.metrics))

	if s.metrics.Enabled() {
		path := metricsCfg.Path
		if path == "" {
			path = config.DefaultMetricsPath
		}
		mux.Handle(path, s.metrics.Handler())
	}

	return middleware.Chain(mux,
		middleware.RecoveryMiddleware,
		middleware.RequestIDMiddleware,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware(s.config.CORS),
		middleware.TimeoutMiddleware(handlerTimeout(s.config.WriteTimeout)),
	)
}

// handlerTimeout leaves the handler enough of the write timeout to send its
// error response.
func handlerTimeout(writeTimeout time.Duration) time.Duration {
	if writeTimeout > 2*handlerTimeoutSlack {
		return writeTimeout - handlerTimeoutSlack
	}
	return writeTimeout
}
