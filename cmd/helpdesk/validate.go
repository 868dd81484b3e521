package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mercator-hq/helpdesk/pkg/cli"
	"mercator-hq/helpdesk/pkg/config"
	"mercator-hq/helpdesk/pkg/security/secrets"
)

var validateFlags struct {
	output string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load the configuration with environment overrides applied, resolve
${secret:name} references in the provider API keys and report whether the
result is valid.

Examples:
  # Validate the defaults plus environment
  helpdesk validate

  # Validate a file and print a JSON report
  helpdesk validate --config config.yaml --output json`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVarP(&validateFlags.output, "output", "o", "text", "output format: text, json")
}

// validationReport is the result printed by the validate command.
type validationReport struct {
	Source   string          `json:"source"`
	Valid    bool            `json:"valid"`
	Errors   []string        `json:"errors,omitempty"`
	Primary  *providerReport `json:"primary,omitempty"`
	Fallback *providerReport `json:"fallback,omitempty"`
}

type providerReport struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	BaseURL     string `json:"base_url"`
	Model       string `json:"model"`
	HasAPIKey   bool   `json:"has_api_key"`
	FromSecret  bool   `json:"api_key_from_secret,omitempty"`
}

func (r validationReport) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Configuration: %s\n", r.Source)
	if !r.Valid {
		sb.WriteString("✗ Configuration invalid\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&sb, "  - %s\n", e)
		}
		return sb.String()
	}

	sb.WriteString("✓ Configuration valid\n")
	for _, p := range []struct {
		role string
		r    *providerReport
	}{{"Primary", r.Primary}, {"Fallback", r.Fallback}} {
		key := "set"
		switch {
		case !p.r.HasAPIKey:
			key = "missing"
		case p.r.FromSecret:
			key = "from secret"
		}
		fmt.Fprintf(&sb, "  %s: %s (%s, model %s, API key %s)\n", p.role, p.r.DisplayName, p.r.BaseURL, p.r.Model, key)
	}
	return sb.String()
}

func newProviderReport(p config.ProviderConfig, fromSecret bool) *providerReport {
	return &providerReport{
		Name:        p.Name,
		DisplayName: p.DisplayName,
		BaseURL:     p.BaseURL,
		Model:       p.Model,
		HasAPIKey:   p.APIKey != "",
		FromSecret:  fromSecret,
	}
}

func validateConfig(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseOutputFormat(validateFlags.output)
	if err != nil {
		return err
	}

	report := buildValidationReport(cfgFile)
	if err := cli.NewFormatter(format).Write(cmd.OutOrStdout(), report); err != nil {
		return cli.NewCommandError("validate", err)
	}

	if !report.Valid {
		return cli.NewConfigError("", fmt.Sprintf("%d validation error(s)", len(report.Errors)))
	}
	return nil
}

func buildValidationReport(path string) validationReport {
	source := path
	if source == "" {
		source = "defaults and environment"
	}
	report := validationReport{Source: source}

	cfg, err := config.LoadConfigWithEnvOverrides(path)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) {
			for _, fe := range verr.Errors {
				report.Errors = append(report.Errors, fe.Error())
			}
		} else {
			report.Errors = []string{err.Error()}
		}
		return report
	}

	primaryRef := secrets.HasReference(cfg.Providers.Primary.APIKey)
	fallbackRef := secrets.HasReference(cfg.Providers.Fallback.APIKey)

	resolver, err := secrets.NewResolver(cfg.Secrets, nil)
	if err != nil {
		report.Errors = []string{"secrets.dir: " + err.Error()}
		return report
	}
	if err := resolver.ResolveProviders(context.Background(), &cfg.Providers); err != nil {
		report.Errors = []string{err.Error()}
		return report
	}

	report.Valid = true
	report.Primary = newProviderReport(cfg.Providers.Primary, primaryRef)
	report.Fallback = newProviderReport(cfg.Providers.Fallback, fallbackRef)
	return report
}
