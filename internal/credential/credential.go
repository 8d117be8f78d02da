// Package credential provides scoped storage for the bearer token used to
// authorize gateway calls. The storage itself is opaque to the rest of the
// system: callers only get, set, and delete a single token.
package credential

import (
	"context"

	"github.com/go-faster/errors"
)

// ErrNoToken is returned by Token when no credential is stored.
var ErrNoToken = errors.New("no credential available")

// Provider is an asynchronous get/set/delete capability for a bearer token.
// Implementations must be safe for concurrent use.
type Provider interface {
	// Token returns the current bearer token, or ErrNoToken when absent.
	Token(ctx context.Context) (string, error)
	// Store replaces the current token.
	Store(ctx context.Context, token string) error
	// Delete removes the current token. Deleting an absent token is a no-op.
	Delete(ctx context.Context) error
}
