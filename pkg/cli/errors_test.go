package cli

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorMessages(t *testing.T) {
	cause := errors.New("open helpdesk.yaml: no such file or directory")

	tests := []struct {
		err  error
		want string
	}{
		{NewConfigError("server.listen_address", "listen address is required"), "config error in server.listen_address: listen address is required"},
		{WrapConfigError(cause), "config error: open helpdesk.yaml: no such file or directory"},
		{NewCommandError("run", errors.New("address already in use")), "command run failed: address already in use"},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}

	if !errors.Is(WrapConfigError(cause), cause) {
		t.Error("wrapped config error does not unwrap to its cause")
	}
	if !errors.Is(NewCommandError("validate", cause), cause) {
		t.Error("command error does not unwrap to its cause")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"config", NewConfigError("server", "bad"), ExitConfig},
		{"wrapped config", fmt.Errorf("run: %w", WrapConfigError(errors.New("bad"))), ExitConfig},
		{"config inside command", NewCommandError("run", NewConfigError("secrets", "missing")), ExitConfig},
		{"command", NewCommandError("run", errors.New("listen failed")), ExitFailure},
		{"plain", errors.New("boom"), ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
