// Package directory defines the account-directory boundary. The directory is
// the external identity provider that owns account records and access tokens;
// the wallet core consumes it through the Directory port and treats its
// failures as DirectoryError.
package directory

import "context"

// Directory is the collaborator contract for the managed account directory.
//
// Error Contract:
//   - RegisterPending returns already_registered for an active account
//   - Authenticate returns unknown_principal when no confirmed account exists
//   - Validate returns unauthenticated for unknown, expired, or revoked tokens
//   - Infrastructure failures surface as directory_error and are passed to
//     callers unchanged
type Directory interface {
	// RegisterPending creates a pending (unconfirmed) account for the
	// principal and returns an opaque registration handle.
	RegisterPending(ctx context.Context, principal, secret string) (handle string, err error)

	// ConfirmRegistration finalizes a pending registration and returns the
	// new account ID.
	ConfirmRegistration(ctx context.Context, handle string) (accountID string, err error)

	// Authenticate starts an authentication exchange for a confirmed account
	// and returns an opaque challenge context.
	Authenticate(ctx context.Context, principal string) (challengeContext string, err error)

	// IssueAccessToken exchanges a challenge context for a fresh access token.
	IssueAccessToken(ctx context.Context, challengeContext string) (accessToken string, err error)

	// Validate resolves an access token to its account ID, failing for
	// revoked or expired tokens. Revocation is visible immediately.
	Validate(ctx context.Context, accessToken string) (accountID string, err error)

	// Revoke invalidates an access token. Revoking an already revoked token
	// is not an error.
	Revoke(ctx context.Context, accessToken string) error
}
