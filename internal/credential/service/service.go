// Package service implements the credential store operations behind a
// validated access token. Every operation resolves the token to an account
// through the directory before touching storage, so a revoked session loses
// access immediately.
package service

import (
	"context"
	"encoding/json"
	"log/slog"

	"walletgate/internal/audit"
	"walletgate/internal/auth/directory"
	"walletgate/internal/credential/models"
	"walletgate/internal/credential/sharetoken"
	"walletgate/internal/credential/store"
	"walletgate/internal/platform/metrics"
	dErrors "walletgate/pkg/domain-errors"
)

// Service owns the credential records of authenticated identities.
type Service struct {
	records store.Store
	dir     directory.Directory
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics enables credential metrics.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = mx }
}

// WithAudit attaches an audit publisher.
func WithAudit(publisher *audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// NewService builds the credential service.
func NewService(records store.Store, dir directory.Directory, opts ...Option) *Service {
	s := &Service{records: records, dir: dir}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Service) authorize(ctx context.Context, accessToken string) (string, error) {
	accountID, err := s.dir.Validate(ctx, accessToken)
	if err != nil {
		return "", err
	}
	return accountID, nil
}

// Save normalizes and appends the credential batch under the caller's
// account. The batch is all-or-nothing: a duplicate ID anywhere in it leaves
// the store untouched.
func (s *Service) Save(ctx context.Context, accessToken string, raws []json.RawMessage) ([]models.Record, error) {
	accountID, err := s.authorize(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "no credentials supplied")
	}

	records, err := models.NormalizeAll(raws)
	if err != nil {
		return nil, err
	}
	if err := s.records.Append(ctx, accountID, records); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.CredentialsSaved.Add(float64(len(records)))
	}
	if s.audit != nil {
		_ = s.audit.Emit(ctx, audit.Event{
			AccountID: accountID,
			Action:    string(audit.EventCredentialsSaved),
		})
	}
	s.logger.InfoContext(ctx, "credentials saved",
		"account_id", accountID,
		"count", len(records),
	)
	return records, nil
}

// List returns the caller's credentials in insertion order. When a share
// request token is supplied, only records satisfying one of its type
// requirements are returned; an undecodable token fails the whole call.
func (s *Service) List(ctx context.Context, accessToken, shareRequestToken string) ([]models.Record, error) {
	accountID, err := s.authorize(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	filtered := shareRequestToken != ""
	var constraints sharetoken.Constraints
	if filtered {
		// Decode before listing so a bad token fails without a storage read.
		constraints, err = sharetoken.Decode(shareRequestToken)
		if err != nil {
			return nil, err
		}
	}

	records, err := s.records.List(ctx, accountID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not list credentials")
	}

	if filtered {
		matched := make([]models.Record, 0, len(records))
		for _, record := range records {
			if constraints.Matches(record) {
				matched = append(matched, record)
			}
		}
		records = matched
	}

	if s.metrics != nil {
		s.metrics.CredentialLists.WithLabelValues(boolLabel(filtered)).Inc()
	}
	return records, nil
}

// Delete removes one credential by ID. Deleting an absent ID succeeds.
func (s *Service) Delete(ctx context.Context, accessToken, id string) error {
	accountID, err := s.authorize(ctx, accessToken)
	if err != nil {
		return err
	}
	if id == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "credential id is required")
	}

	if err := s.records.Delete(ctx, accountID, id); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not delete credential")
	}
	if s.metrics != nil {
		s.metrics.CredentialsDeleted.Inc()
	}
	if s.audit != nil {
		_ = s.audit.Emit(ctx, audit.Event{
			AccountID: accountID,
			Action:    string(audit.EventCredentialsDeleted),
		})
	}
	return nil
}

// DeleteAll removes every credential of the caller. Safe to repeat.
func (s *Service) DeleteAll(ctx context.Context, accessToken string) error {
	accountID, err := s.authorize(ctx, accessToken)
	if err != nil {
		return err
	}

	if err := s.records.DeleteAll(ctx, accountID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "could not delete credentials")
	}
	if s.audit != nil {
		_ = s.audit.Emit(ctx, audit.Event{
			AccountID: accountID,
			Action:    string(audit.EventCredentialsDeleted),
			Reason:    "delete_all",
		})
	}
	s.logger.InfoContext(ctx, "all credentials deleted", "account_id", accountID)
	return nil
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
