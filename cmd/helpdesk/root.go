package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/helpdesk/pkg/cli"
	"mercator-hq/helpdesk/pkg/config"
)

var (
	// Global flags
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "helpdesk",
	Short: "Helpdesk - customer-support chat relay",
	Long: `Helpdesk relays customer-support chat turns to an LLM.

Each turn goes to the primary provider (OpenAI chat completions). When the
primary fails the turn is retried once on the fallback provider (Gemini) and
the client is told which provider took over. The conversation transcript is
kept in a browser cookie; the relay itself is stateless.

Credentials come from the configuration file, HELPDESK_* variables, or the
conventional OPENAI_API_KEY and GEMINI_API_KEY variables.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envFile); err != nil {
			return cli.WrapConfigError(err)
		}
		return nil
	},
}

// Execute runs the root command and exits with a code that reflects the failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults and environment only when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file loaded before the configuration (skipped if missing)")
}
