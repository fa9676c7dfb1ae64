// Package vault holds encrypted seed ciphertext per identity. Decrypting the
// ciphertext into usable key material requires the session secret and is a
// collaborator concern; no plaintext ever crosses this boundary.
package vault

import (
	"context"
	"errors"
	"log/slog"

	dErrors "walletgate/pkg/domain-errors"
)

// Service exposes seed custody operations over a Store.
type Service struct {
	store  Store
	logger *slog.Logger
}

// Option configures the vault service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// NewService builds a vault over the given store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Store associates the ciphertext with the identity, replacing any prior one.
func (s *Service) Store(ctx context.Context, identity, ciphertext string) error {
	if identity == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "identity is required")
	}
	if ciphertext == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "ciphertext is required")
	}
	if err := s.store.Put(ctx, identity, ciphertext); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not store encrypted seed")
	}
	s.logger.InfoContext(ctx, "encrypted seed stored", "identity", identity)
	return nil
}

// Retrieve returns the stored ciphertext. A not_found error is a valid
// outcome when enrollment opted out of seed backup.
func (s *Service) Retrieve(ctx context.Context, identity string) (string, error) {
	if identity == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity is required")
	}
	ciphertext, err := s.store.Get(ctx, identity)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", err
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not load encrypted seed")
	}
	return ciphertext, nil
}
