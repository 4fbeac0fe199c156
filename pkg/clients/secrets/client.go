package secrets

import (
	"context"
	"errors"
)

// ErrSecretNotFound is returned when the store has no secret under the given identifier.
var ErrSecretNotFound = errors.New("secret not found")

// Client defines the interface for fetching a secret payload by identifier.
// Implementations return the raw payload; interpreting it is up to the caller.
type Client interface {
	GetSecret(ctx context.Context, id string) (string, error)
}

// StoreError carries the store's own description of a failed lookup.
// Error returns Msg unchanged; errors.Is matches ErrSecretNotFound when
// NotFound is set.
type StoreError struct {
	Msg      string
	NotFound bool
	Err      error
}

func (e *StoreError) Error() string { return e.Msg }

func (e *StoreError) Unwrap() error { return e.Err }

func (e *StoreError) Is(target error) bool {
	return e.NotFound && target == ErrSecretNotFound
}
