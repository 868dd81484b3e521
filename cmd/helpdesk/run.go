package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/helpdesk/pkg/cli"
	"mercator-hq/helpdesk/pkg/config"
	"mercator-hq/helpdesk/pkg/security/secrets"
	"mercator-hq/helpdesk/pkg/server"
	"mercator-hq/helpdesk/pkg/telemetry/logging"
	"mercator-hq/helpdesk/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
	watch         bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the helpdesk relay",
	Long: `Start the helpdesk relay with the specified configuration.

The server listens on the configured address and answers chat turns with the
primary provider, falling back to the secondary provider on failure.

Examples:
  # Start with defaults and credentials from the environment
  helpdesk run

  # Start with a config file and reload providers when it or a secret changes
  helpdesk run --config /etc/helpdesk/config.yaml --watch

  # Override listen address
  helpdesk run --listen 0.0.0.0:3000

  # Validate config without starting server
  helpdesk run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload providers when the config file or a secret file changes")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	logger, err := logging.Setup(logging.ConfigFrom(cfg.Telemetry.Logging, os.Stdout))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}

	ctx, stop := cli.SignalContext(cmd.Context())
	defer stop()

	resolver, err := secrets.NewResolver(cfg.Secrets, logger)
	if err != nil {
		return cli.NewConfigError("secrets.dir", err.Error())
	}
	if err := resolver.ResolveProviders(ctx, &cfg.Providers); err != nil {
		return cli.NewConfigError("secrets", err.Error())
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	printBanner(cmd, cfg)

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	srv, err := server.New(cfg, server.Options{Logger: logger, Metrics: collector})
	if err != nil {
		return cli.NewCommandError("run", err)
	}

	if runFlags.watch {
		if err := startWatchers(ctx, srv, resolver, logger); err != nil {
			return cli.NewCommandError("run", err)
		}
	}

	base := srv.Scheme() + "://" + cfg.Server.ListenAddress
	fmt.Fprintf(out, "✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Fprintf(out, "✓ Chat endpoint: %s%s\n", base, server.ChatPath)
	fmt.Fprintf(out, "✓ Health endpoint: %s%s\n", base, server.HealthPath)
	if cfg.Telemetry.Metrics.IsEnabled() {
		fmt.Fprintf(out, "✓ Metrics endpoint: %s%s\n", base, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		slog.Error("server failed", "error", err)
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// startWatchers reloads the provider pipeline when the config file or a file
// in the secrets directory changes.
func startWatchers(ctx context.Context, srv *server.Server, resolver *secrets.Resolver, logger *slog.Logger) error {
	apply := func(next *config.Config) {
		applyRunFlags(next)
		if err := resolver.ResolveProviders(ctx, &next.Providers); err != nil {
			logger.Error("failed to resolve secrets in reloaded configuration", "error", err)
			return
		}
		if err := srv.Reload(next); err != nil {
			logger.Error("failed to apply reloaded configuration", "error", err)
		}
	}

	if cfgFile == "" {
		logger.Warn("config file watching needs --config")
	} else {
		watcher, err := config.NewWatcher(cfgFile, 0, logger)
		if err != nil {
			return err
		}
		go func() {
			if err := watcher.Watch(ctx, apply); err != nil {
				logger.Error("config watcher stopped", "error", err)
			}
		}()
	}

	go func() {
		err := resolver.Watch(ctx, func() {
			next, err := config.LoadConfigWithEnvOverrides(cfgFile)
			if err != nil {
				logger.Error("failed to reload configuration after a secret change", "error", err)
				return
			}
			apply(next)
		})
		if err != nil {
			logger.Error("secrets watcher stopped", "error", err)
		}
	}()
	return nil
}

// loadRunConfig loads the configuration, applies flag overrides, and
// publishes the result as the process-wide configuration.
func loadRunConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.WrapConfigError(err)
	}

	if applyRunFlags(cfg) {
		if err := config.Validate(cfg); err != nil {
			return nil, cli.WrapConfigError(err)
		}
	}

	config.SetConfig(cfg)
	return cfg, nil
}

// applyRunFlags applies command-line overrides and reports whether any were set.
func applyRunFlags(cfg *config.Config) bool {
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	return runFlags.listenAddress != "" || runFlags.logLevel != ""
}

func printBanner(cmd *cobra.Command, cfg *config.Config) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Helpdesk v%s\n", Version)
	if cfgFile != "" {
		fmt.Fprintf(out, "Loading configuration from: %s\n", cfgFile)
	}
	fmt.Fprintln(out, "✓ Configuration loaded")
	fmt.Fprintf(out, "✓ Primary provider: %s (%s)\n", cfg.Providers.Primary.DisplayName, cfg.Providers.Primary.Model)
	fmt.Fprintf(out, "✓ Fallback provider: %s (%s)\n", cfg.Providers.Fallback.DisplayName, cfg.Providers.Fallback.Model)

	if cfg.Providers.Primary.APIKey == "" {
		slog.Warn("primary provider has no API key; every turn will fall back", "env", config.EnvOpenAIAPIKey)
	}
	if cfg.Providers.Fallback.APIKey == "" {
		slog.Warn("fallback provider has no API key", "env", config.EnvGeminiAPIKey)
	}
}
