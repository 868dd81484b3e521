/*
Package cli provides command-line helpers shared by the helpdesk commands.

Output Formatting:

Commands that print a result accept --output text|json:

	format, err := cli.ParseOutputFormat(flagValue)
	if err != nil {
		return err
	}
	if err := cli.NewFormatter(format).Write(os.Stdout, report); err != nil {
		return err
	}

Errors and Exit Codes:

Configuration failures are returned as *ConfigError and exit with ExitConfig;
other failures exit with ExitFailure:

	os.Exit(cli.ExitCode(err))

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
*/
package cli
