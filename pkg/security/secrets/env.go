package secrets

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// EnvSource reads secrets from environment variables.
//
// Secret names map to variable names by upper-casing, replacing hyphens and
// dots with underscores and prepending Prefix:
//
//	"openai-api-key" -> "HELPDESK_SECRET_OPENAI_API_KEY"
type EnvSource struct {
	Prefix string
}

// NewEnvSource creates an environment source with the given prefix.
func NewEnvSource(prefix string) *EnvSource {
	return &EnvSource{Prefix: prefix}
}

// Name returns "env".
func (s *EnvSource) Name() string {
	return "env"
}

// Lookup returns the variable for name. Unset and empty variables are both
// reported as not found.
func (s *EnvSource) Lookup(ctx context.Context, name string) (string, error) {
	envVar := s.VarName(name)
	value := os.Getenv(envVar)
	if value == "" {
		return "", fmt.Errorf("%w in environment: %s (env var: %s)", ErrNotFound, name, envVar)
	}
	return value, nil
}

// VarName returns the environment variable consulted for name.
func (s *EnvSource) VarName(name string) string {
	return s.Prefix + strings.ToUpper(varNameReplacer.Replace(name))
}

var varNameReplacer = strings.NewReplacer("-", "_", ".", "_")
