package service

import (
	"context"
	"errors"

	"walletgate/internal/audit"
	"walletgate/internal/auth/models"
	"walletgate/internal/auth/otp"
	"walletgate/internal/vault"
	dErrors "walletgate/pkg/domain-errors"
	"walletgate/pkg/email"
)

// SignInRequest initiates authentication of an enrolled principal.
type SignInRequest struct {
	Principal string
	Password  string
	Template  models.MessageTemplate
	UserAgent string
}

// SignIn starts the directory's authentication exchange and opens an OTP
// challenge. The password travels inside the challenge so confirmation can
// hand the caller a session able to decrypt the backed-up seed.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (string, error) {
	if !email.IsValidEmail(req.Principal) {
		return "", dErrors.New(dErrors.CodeValidation, "principal must be a valid email address")
	}

	challengeCtx, err := s.dir.Authenticate(ctx, req.Principal)
	if err != nil {
		s.emit(ctx, audit.EventAuthFailed, req.Principal, "", "signin_initiation")
		return "", err
	}

	token, err := s.otp.Issue(ctx, otp.IssueRequest{
		Principal:    req.Principal,
		Flow:         models.FlowSignIn,
		Template:     req.Template,
		DirectoryRef: challengeCtx,
		Secret:       req.Password,
		Fingerprint:  s.devices.ComputeFingerprint(req.UserAgent),
	})
	if err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.SignInsInitiated.Inc()
	}
	s.emit(ctx, audit.EventSignInInitiated, req.Principal, "", "")
	s.logger.InfoContext(ctx, "sign-in initiated")
	return token, nil
}

// ConfirmSignIn proves possession of the delivered code and establishes the
// identity session. A missing seed backup is a valid outcome for accounts
// enrolled with skip-backup; the session is returned with an empty
// EncryptedSeed so the caller can store one.
func (s *Service) ConfirmSignIn(ctx context.Context, token, code, userAgent string) (*models.IdentitySession, error) {
	ch, err := s.otp.Verify(ctx, token, code, models.FlowSignIn)
	if err != nil {
		s.emit(ctx, audit.EventAuthFailed, "", "", "signin_confirmation")
		return nil, err
	}

	if s.cfg.DeviceBindingEnabled {
		current := s.devices.ComputeFingerprint(userAgent)
		if matched, drift := s.devices.CompareFingerprints(ch.Fingerprint, current); !matched {
			s.logger.WarnContext(ctx, "device fingerprint drift on sign-in confirmation",
				"drift", drift,
			)
			s.emit(ctx, audit.EventAuthFailed, ch.Principal, "", "device_mismatch")
			return nil, dErrors.New(dErrors.CodeUnauthenticated, "device does not match sign-in initiation")
		}
	}

	accessToken, err := s.dir.IssueAccessToken(ctx, ch.DirectoryRef)
	if err != nil {
		return nil, err
	}
	accountID, err := s.dir.Validate(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	encryptedSeed, err := s.seeds.Retrieve(ctx, accountID)
	if err != nil && !errors.Is(err, vault.ErrNotFound) {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.SessionsConfirmed.WithLabelValues(string(models.FlowSignIn)).Inc()
		s.metrics.ActiveSessions.Inc()
	}
	s.emit(ctx, audit.EventSignInConfirmed, ch.Principal, accountID, "")
	s.logger.InfoContext(ctx, "sign-in confirmed", "account_id", accountID)

	return &models.IdentitySession{
		AccessToken:   accessToken,
		EncryptedSeed: encryptedSeed,
		Password:      ch.Secret,
		Principal:     ch.Principal,
		AccountID:     accountID,
		DID:           s.mintDID(accountID),
	}, nil
}
