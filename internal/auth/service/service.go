// Package service implements the two-phase session authenticator. Sign-up and
// sign-in both run as initiate/confirm pairs: initiation registers intent with
// the account directory and opens an OTP challenge, confirmation proves
// possession of the delivered code and establishes an identity session.
package service

import (
	"context"
	"log/slog"
	"time"

	"walletgate/internal/audit"
	"walletgate/internal/auth/device"
	"walletgate/internal/auth/directory"
	"walletgate/internal/auth/otp"
	"walletgate/internal/platform/metrics"
	"walletgate/internal/vault"
	"walletgate/pkg/did"
	dErrors "walletgate/pkg/domain-errors"
)

// Config carries the static knobs of the authenticator.
type Config struct {
	// DIDMethod is the method used when minting session DIDs. Empty selects
	// the first entry of the allow-list.
	DIDMethod string

	// SupportedDIDMethods is the DID method allow-list DIDMethod is checked
	// against. Empty falls back to did.DefaultSupportedMethods.
	SupportedDIDMethods []string

	// SkipSeedBackup disables writing the encrypted seed to the vault at
	// sign-up confirmation. The session still carries the ciphertext.
	SkipSeedBackup bool

	// DeviceBindingEnabled turns on fingerprint comparison between sign-in
	// initiation and confirmation.
	DeviceBindingEnabled bool
}

// Service orchestrates the directory, the OTP manager and the seed vault.
type Service struct {
	cfg     Config
	otp     *otp.Manager
	dir     directory.Directory
	seeds   *vault.Service
	devices *device.Service
	logger  *slog.Logger
	metrics *metrics.Metrics
	audit   *audit.Publisher
	now     func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithMetrics enables session metrics.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = mx }
}

// WithAudit attaches an audit publisher.
func WithAudit(publisher *audit.Publisher) Option {
	return func(s *Service) { s.audit = publisher }
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New builds the session authenticator.
func New(cfg Config, otpManager *otp.Manager, dir directory.Directory, seeds *vault.Service, opts ...Option) (*Service, error) {
	methods := did.NewMethods(cfg.SupportedDIDMethods)
	if cfg.DIDMethod == "" {
		cfg.DIDMethod = methods.Supported()[0]
	}
	if err := methods.Validate(cfg.DIDMethod); err != nil {
		return nil, err
	}

	s := &Service{
		cfg:     cfg,
		otp:     otpManager,
		dir:     dir,
		seeds:   seeds,
		devices: device.NewService(cfg.DeviceBindingEnabled),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

func (s *Service) emit(ctx context.Context, action audit.AuditEvent, principal, accountID, reason string) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Emit(ctx, audit.Event{
		Timestamp: s.now(),
		Principal: principal,
		AccountID: accountID,
		Action:    string(action),
		Reason:    reason,
	})
}

func invalidInput(msg string) error {
	return dErrors.New(dErrors.CodeInvalidInput, msg)
}
