package service

import (
	"context"
	"fmt"

	"walletgate/internal/audit"
	"walletgate/internal/auth/models"
	"walletgate/internal/auth/otp"
	"walletgate/internal/seed"
	dErrors "walletgate/pkg/domain-errors"
	"walletgate/pkg/email"
)

// SignUpRequest initiates enrollment of a new principal.
type SignUpRequest struct {
	Principal string
	Password  string
	Template  models.MessageTemplate
	UserAgent string
}

// SignUp registers a pending account with the directory and opens an OTP
// challenge for the principal. The returned token correlates the later
// ConfirmSignUp call; no account becomes active until then.
func (s *Service) SignUp(ctx context.Context, req SignUpRequest) (string, error) {
	if !email.IsValidEmail(req.Principal) {
		return "", dErrors.New(dErrors.CodeValidation, "principal must be a valid email address")
	}
	if req.Password == "" {
		return "", invalidInput("password is required")
	}

	handle, err := s.dir.RegisterPending(ctx, req.Principal, req.Password)
	if err != nil {
		return "", err
	}

	token, err := s.otp.Issue(ctx, otp.IssueRequest{
		Principal:    req.Principal,
		Flow:         models.FlowSignUp,
		Template:     req.Template,
		DirectoryRef: handle,
		Secret:       req.Password,
		Fingerprint:  s.devices.ComputeFingerprint(req.UserAgent),
	})
	if err != nil {
		return "", err
	}

	if s.metrics != nil {
		s.metrics.SignUpsInitiated.Inc()
	}
	s.emit(ctx, audit.EventSignUpInitiated, req.Principal, "", "")
	s.logger.InfoContext(ctx, "sign-up initiated")
	return token, nil
}

// ConfirmSignUp proves possession of the delivered code, activates the
// account and establishes the identity session. The root seed is generated
// here, encrypted under the password captured at initiation, and backed up to
// the vault unless the deployment opted out.
func (s *Service) ConfirmSignUp(ctx context.Context, token, code string) (*models.IdentitySession, error) {
	ch, err := s.otp.Verify(ctx, token, code, models.FlowSignUp)
	if err != nil {
		s.emit(ctx, audit.EventAuthFailed, "", "", "signup_confirmation")
		return nil, err
	}

	accountID, err := s.dir.ConfirmRegistration(ctx, ch.DirectoryRef)
	if err != nil {
		return nil, err
	}
	accessToken, err := s.establishSession(ctx, ch.Principal)
	if err != nil {
		return nil, err
	}

	plaintext, err := seed.Generate()
	if err != nil {
		return nil, err
	}
	encryptedSeed, err := seed.Encrypt(ch.Secret, plaintext)
	if err != nil {
		return nil, err
	}
	if !s.cfg.SkipSeedBackup {
		if err := s.seeds.Store(ctx, accountID, encryptedSeed); err != nil {
			return nil, err
		}
	}

	if s.metrics != nil {
		s.metrics.SessionsConfirmed.WithLabelValues(string(models.FlowSignUp)).Inc()
		s.metrics.ActiveSessions.Inc()
	}
	s.emit(ctx, audit.EventSignUpConfirmed, ch.Principal, accountID, "")
	s.logger.InfoContext(ctx, "sign-up confirmed", "account_id", accountID)

	return &models.IdentitySession{
		AccessToken:   accessToken,
		EncryptedSeed: encryptedSeed,
		Password:      ch.Secret,
		Principal:     ch.Principal,
		AccountID:     accountID,
		DID:           s.mintDID(accountID),
	}, nil
}

// establishSession runs the directory's authenticate/issue exchange for a
// confirmed account.
func (s *Service) establishSession(ctx context.Context, principal string) (string, error) {
	challengeCtx, err := s.dir.Authenticate(ctx, principal)
	if err != nil {
		return "", err
	}
	return s.dir.IssueAccessToken(ctx, challengeCtx)
}

func (s *Service) mintDID(accountID string) string {
	return fmt.Sprintf("did:%s:%s", s.cfg.DIDMethod, accountID)
}
