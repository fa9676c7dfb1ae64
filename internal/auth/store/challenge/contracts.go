package challenge

import (
	"context"
	"time"

	"walletgate/internal/auth/models"
	dErrors "walletgate/pkg/domain-errors"
)

// Error Contract:
// All store methods follow this error pattern:
// - Return ErrNotFound when the requested challenge does not exist
// - Return ErrAlreadyConsumed when a consume races and loses
// - Return wrapped errors with context for infrastructure failures
var (
	ErrNotFound        = dErrors.New(dErrors.CodeNotFound, "challenge not found")
	ErrAlreadyConsumed = dErrors.New(dErrors.CodeConflict, "challenge already consumed")
)

// Store persists pending OTP challenges.
type Store interface {
	Create(ctx context.Context, ch *models.Challenge) error
	FindByToken(ctx context.Context, token string) (*models.Challenge, error)

	// Consume atomically flips consumed=false to consumed=true for the given
	// token. Exactly one concurrent caller succeeds; the rest observe
	// ErrAlreadyConsumed.
	Consume(ctx context.Context, token string) error

	// InvalidateByPrincipal removes all pending challenges for the principal
	// and flow. Re-issuance calls this so stale codes cannot accumulate.
	InvalidateByPrincipal(ctx context.Context, principal string, flow models.Flow) error

	// DeleteExpired removes challenges whose expiry precedes now and reports
	// how many were removed. The time is injected for testability.
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}
