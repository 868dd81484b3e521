package secrets

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a source has no value for a secret.
var ErrNotFound = errors.New("secret not found")

// Source looks up secret values by name.
//
// A source returns an error wrapping ErrNotFound when it does not hold the
// secret, so the resolver can move on to the next source. Any other error
// stops resolution.
type Source interface {
	// Name identifies the source in logs ("env", "file").
	Name() string

	// Lookup returns the value of the named secret.
	Lookup(ctx context.Context, name string) (string, error)
}
