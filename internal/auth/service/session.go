package service

import (
	"context"

	"walletgate/internal/audit"
)

// SignOut revokes the session's access token. Revocation is immediate: any
// later Validate of the token fails. Signing out an already revoked session
// succeeds.
func (s *Service) SignOut(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return invalidInput("access token is required")
	}
	if err := s.dir.Revoke(ctx, accessToken); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.ActiveSessions.Dec()
	}
	s.emit(ctx, audit.EventSignedOut, "", "", "")
	s.logger.InfoContext(ctx, "signed out")
	return nil
}

// StoreEncryptedSeed replaces the vault ciphertext for the session's account.
// The caller supplies ciphertext produced under its own password; the
// authenticator never sees plaintext seed bytes.
func (s *Service) StoreEncryptedSeed(ctx context.Context, accessToken, encryptedSeed string) error {
	if encryptedSeed == "" {
		return invalidInput("encrypted seed is required")
	}
	accountID, err := s.dir.Validate(ctx, accessToken)
	if err != nil {
		return err
	}
	if err := s.seeds.Store(ctx, accountID, encryptedSeed); err != nil {
		return err
	}
	if s.metrics != nil {
		s.metrics.SeedsRotated.Inc()
	}
	s.emit(ctx, audit.EventSeedRotated, "", accountID, "")
	return nil
}
