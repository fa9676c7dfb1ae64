package store

import (
	"context"

	"walletgate/internal/credential/models"
	dErrors "walletgate/pkg/domain-errors"
)

// Error Contract:
// All store methods follow this error pattern:
// - Append returns ErrDuplicateID when any incoming ID collides with a stored
//   record, writing nothing (the whole batch fails closed)
// - Delete and DeleteAll succeed when nothing matches; removal is idempotent
// - Return wrapped errors with context for infrastructure failures
var ErrDuplicateID = dErrors.New(dErrors.CodeDuplicateCredentialID, "credential id already stored")

// Store persists credential records per identity.
//
// Each identity's records form an insertion-ordered sequence, and operations
// on the same identity are linearizable: concurrent appends and deletes
// interleave as whole operations. Operations on distinct identities do not
// contend.
type Store interface {
	// Append adds the batch to the identity's sequence in the given order.
	// IDs must be unique within the batch and against stored records; on any
	// collision nothing is written.
	Append(ctx context.Context, identity string, records []models.Record) error

	// List returns the identity's records in insertion order. An unknown
	// identity yields an empty slice, not an error.
	List(ctx context.Context, identity string) ([]models.Record, error)

	// Delete removes the record with the given ID if present.
	Delete(ctx context.Context, identity, id string) error

	// DeleteAll removes every record for the identity.
	DeleteAll(ctx context.Context, identity string) error
}
