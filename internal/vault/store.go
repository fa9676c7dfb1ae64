package vault

import (
	"context"

	dErrors "walletgate/pkg/domain-errors"
)

// ErrNotFound keeps storage-specific 404s consistent across implementations.
// A missing seed is a valid outcome for identities enrolled with
// skip-backup, not a sign of corruption.
var ErrNotFound = dErrors.New(dErrors.CodeNotFound, "no encrypted seed stored")

// Store persists one encrypted seed per identity.
//
// Error Contract:
// - Get returns ErrNotFound when no ciphertext is stored for the identity
// - Put overwrites any previously stored ciphertext
type Store interface {
	Put(ctx context.Context, identity, ciphertext string) error
	Get(ctx context.Context, identity string) (string, error)
	Delete(ctx context.Context, identity string) error
}
