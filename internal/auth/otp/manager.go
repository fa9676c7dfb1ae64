// Package otp implements the one-time-passcode challenge manager. It issues
// short-lived codes correlated to pending sign-up/sign-in attempts, delegates
// delivery to the transport collaborator, and enforces single-use on verify.
package otp

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"walletgate/internal/auth/delivery"
	"walletgate/internal/auth/models"
	"walletgate/internal/auth/store/challenge"
	"walletgate/internal/platform/metrics"
	dErrors "walletgate/pkg/domain-errors"
	"walletgate/pkg/secrets"
)

// Verification failure reasons are logged internally but never surfaced:
// callers must not be able to distinguish "wrong code" from "no such
// challenge", so every failure leaves the manager as verification_failed.
const (
	reasonNoChallenge     = "no_such_challenge"
	reasonExpired         = "expired_challenge"
	reasonAlreadyConsumed = "already_consumed"
	reasonCodeMismatch    = "code_mismatch"
)

const (
	defaultTTL        = 10 * time.Minute
	defaultCodeLength = 6
)

// IssueRequest carries everything needed to open a new challenge.
type IssueRequest struct {
	Principal    string
	Flow         models.Flow
	Template     models.MessageTemplate
	DirectoryRef string
	Secret       string
	Fingerprint  string
}

// Manager issues and verifies OTP challenges.
type Manager struct {
	challenges challenge.Store
	transport  delivery.Transport
	ttl        time.Duration
	codeLength int
	logger     *slog.Logger
	metrics    *metrics.Metrics
	now        func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics enables OTP metrics.
func WithMetrics(mx *metrics.Metrics) Option {
	return func(m *Manager) { m.metrics = mx }
}

// WithTTL overrides the challenge lifetime.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithCodeLength overrides the generated code length.
func WithCodeLength(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.codeLength = n
		}
	}
}

// WithClock injects a clock for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager builds a challenge manager over the given store and transport.
func NewManager(challenges challenge.Store, transport delivery.Transport, opts ...Option) *Manager {
	m := &Manager{
		challenges: challenges,
		transport:  transport,
		ttl:        defaultTTL,
		codeLength: defaultCodeLength,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

// Issue opens a challenge bound to the principal, renders the message from
// the template and hands it to the transport. Prior pending challenges for
// the same principal and flow are invalidated so codes cannot accumulate.
func (m *Manager) Issue(ctx context.Context, req IssueRequest) (string, error) {
	if err := req.Template.Validate(); err != nil {
		return "", err
	}

	code, err := secrets.GenerateNumericCode(m.codeLength)
	if err != nil {
		return "", err
	}
	token, err := secrets.Generate()
	if err != nil {
		return "", err
	}

	if err := m.challenges.InvalidateByPrincipal(ctx, req.Principal, req.Flow); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not invalidate prior challenges")
	}

	now := m.now()
	ch := &models.Challenge{
		Token:        token,
		Principal:    req.Principal,
		Code:         code,
		Flow:         req.Flow,
		DirectoryRef: req.DirectoryRef,
		Secret:       req.Secret,
		Fingerprint:  req.Fingerprint,
		CreatedAt:    now,
		ExpiresAt:    now.Add(m.ttl),
	}
	if err := m.challenges.Create(ctx, ch); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not persist challenge")
	}

	body, err := req.Template.Render(code)
	if err != nil {
		return "", err
	}
	if err := m.transport.Deliver(ctx, delivery.Message{
		Principal: req.Principal,
		Subject:   req.Template.Subject,
		Body:      body,
	}); err != nil {
		// The challenge must not linger when nothing was sent.
		_ = m.challenges.InvalidateByPrincipal(ctx, req.Principal, req.Flow)
		return "", dErrors.Wrap(err, dErrors.CodeDeliveryError, "could not deliver otp message")
	}

	if m.metrics != nil {
		m.metrics.OTPIssued.Inc()
	}
	m.logger.InfoContext(ctx, "otp challenge issued",
		"flow", string(req.Flow),
		"expires_at", ch.ExpiresAt,
	)
	return token, nil
}

// Verify checks the supplied code against the challenge for the correlation
// token and the expected flow. On success the challenge is consumed so the
// same code can never be replayed; exactly one concurrent caller wins.
func (m *Manager) Verify(ctx context.Context, token, suppliedCode string, flow models.Flow) (*models.Challenge, error) {
	ch, err := m.challenges.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, challenge.ErrNotFound) {
			return nil, m.fail(ctx, reasonNoChallenge)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not load challenge")
	}

	if ch.Flow != flow {
		return nil, m.fail(ctx, reasonNoChallenge)
	}
	if ch.Expired(m.now()) {
		return nil, m.fail(ctx, reasonExpired)
	}
	if ch.Consumed {
		return nil, m.fail(ctx, reasonAlreadyConsumed)
	}
	if !secrets.ConstantTimeEquals(ch.Code, suppliedCode) {
		return nil, m.fail(ctx, reasonCodeMismatch)
	}

	// Compare-and-set: of several racers holding the correct code, only the
	// one that flips the consumed flag proceeds.
	if err := m.challenges.Consume(ctx, token); err != nil {
		if errors.Is(err, challenge.ErrAlreadyConsumed) || errors.Is(err, challenge.ErrNotFound) {
			return nil, m.fail(ctx, reasonAlreadyConsumed)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "could not consume challenge")
	}

	ch.Consumed = true
	return ch, nil
}

func (m *Manager) fail(ctx context.Context, reason string) error {
	if m.metrics != nil {
		m.metrics.OTPFailures.Inc()
	}
	m.logger.WarnContext(ctx, "otp verification failed", "reason", reason)
	return dErrors.New(dErrors.CodeVerificationFailed, "otp verification failed")
}
