// Package server provides the HTTP server of the helpdesk relay.
//
// The server ties the chat and health handlers to the middleware chain and
// owns their lifecycle, including hot reload of the provider pipeline.
//
// # Basic Usage
//
//	cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//	if err != nil {
//	    return err
//	}
//
//	srv, err := server.New(cfg, server.Options{Logger: logger})
//	if err != nil {
//	    return err
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
//	defer stop()
//	return srv.Start(ctx)
//
// # Routes
//
//   - POST /chat and POST /api/chat: conversation turns and resets
//   - GET /health: liveness
//   - GET /health/providers: provider health counters
//   - GET /metrics: Prometheus exposition (when metrics are enabled)
//
// # Middleware
//
// Requests pass through, outermost first: panic recovery, request ID,
// request logging, CORS and finally a context deadline slightly shorter than the
// server write timeout so a turn that runs out of time still gets its
// error response written.
//
// # TLS
//
// With server.tls.enabled the listener serves HTTPS. The certificate files
// are polled every server.tls.reload_interval and renewed certificates are
// served to new connections without a restart.
//
// # Hot Reload
//
// Reload rebuilds the providers from a new configuration and swaps them into
// the chat handler atomically:
//
//	watcher, _ := config.NewWatcher(path, 0, logger)
//	go watcher.Watch(ctx, func(cfg *config.Config) {
//	    if err := srv.Reload(cfg); err != nil {
//	        logger.Error("reload failed", "error", err)
//	    }
//	})
package server
