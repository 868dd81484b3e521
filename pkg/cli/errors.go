package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the helpdesk binary. ExitConfig means the process
// never started serving because its configuration was unusable.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitConfig  = 2
)

// ConfigError reports unusable configuration. Field is the dotted YAML path
// when one is known.
type ConfigError struct {
	Field   string
	Message string
	Err     error
}

func NewConfigError(field, message string) *ConfigError {
	return &ConfigError{Field: field, Message: message}
}

// WrapConfigError reports a configuration that failed to load or validate.
func WrapConfigError(err error) *ConfigError {
	return &ConfigError{Message: err.Error(), Err: err}
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return "config error in " + e.Field + ": " + e.Message
	}
	return "config error: " + e.Message
}

func (e *ConfigError) Unwrap() error { return e.Err }

// CommandError is a failure while a subcommand was running.
type CommandError struct {
	Command string
	Err     error
}

func NewCommandError(command string, err error) *CommandError {
	return &CommandError{Command: command, Err: err}
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %s failed: %v", e.Command, e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// ExitCode picks the process exit code for err.
func ExitCode(err error) int {
	var cfgErr *ConfigError
	switch {
	case err == nil:
		return ExitOK
	case errors.As(err, &cfgErr):
		return ExitConfig
	default:
		return ExitFailure
	}
}
