package service

import (
	"go.uber.org/mock/gomock"

	"walletgate/internal/seed"
	dErrors "walletgate/pkg/domain-errors"
)

func (s *ServiceSuite) TestSignUpDeliversCode() {
	s.mockDir.EXPECT().RegisterPending(gomock.Any(), "a@test", "Passw0rd!").Return("reg-handle-1", nil)

	token, err := s.service.SignUp(s.ctx, SignUpRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)
	s.NotEmpty(token)

	code := s.deliveredCode("a@test")
	s.Len(code, 6)
}

func (s *ServiceSuite) TestSignUpRejectsBadPrincipal() {
	_, err := s.service.SignUp(s.ctx, SignUpRequest{
		Principal: "not-an-email",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestSignUpSurfacesAlreadyRegistered() {
	s.mockDir.EXPECT().RegisterPending(gomock.Any(), "a@test", "Passw0rd!").
		Return("", dErrors.New(dErrors.CodeAlreadyRegistered, "account exists"))

	_, err := s.service.SignUp(s.ctx, SignUpRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeAlreadyRegistered))
}

func (s *ServiceSuite) TestConfirmSignUpEstablishesSession() {
	s.mockDir.EXPECT().RegisterPending(gomock.Any(), "a@test", "Passw0rd!").Return("reg-handle-1", nil)
	s.mockDir.EXPECT().ConfirmRegistration(gomock.Any(), "reg-handle-1").Return("acct-1", nil)
	s.mockDir.EXPECT().Authenticate(gomock.Any(), "a@test").Return("chal-ctx-1", nil)
	s.mockDir.EXPECT().IssueAccessToken(gomock.Any(), "chal-ctx-1").Return("access-token-1", nil)

	token, err := s.service.SignUp(s.ctx, SignUpRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)

	session, err := s.service.ConfirmSignUp(s.ctx, token, s.deliveredCode("a@test"))
	s.Require().NoError(err)
	s.Equal("access-token-1", session.AccessToken)
	s.Equal("acct-1", session.AccountID)
	s.Equal("a@test", session.Principal)
	s.Equal("Passw0rd!", session.Password)
	s.Equal("did:jolo:acct-1", session.DID)
	s.NotEmpty(session.EncryptedSeed)

	// Seed is backed up and decrypts under the sign-up password.
	stored, err := s.seeds.Retrieve(s.ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal(session.EncryptedSeed, stored)

	plaintext, err := seed.Decrypt("Passw0rd!", stored)
	s.Require().NoError(err)
	s.NotEmpty(plaintext)
}

func (s *ServiceSuite) TestConfirmSignUpWrongCodeIsUniform() {
	s.mockDir.EXPECT().RegisterPending(gomock.Any(), "a@test", "Passw0rd!").Return("reg-handle-1", nil)

	token, err := s.service.SignUp(s.ctx, SignUpRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)

	_, errWrongCode := s.service.ConfirmSignUp(s.ctx, token, "000000")
	_, errNoChallenge := s.service.ConfirmSignUp(s.ctx, "no-such-token", "000000")

	s.True(dErrors.HasCode(errWrongCode, dErrors.CodeVerificationFailed))
	s.True(dErrors.HasCode(errNoChallenge, dErrors.CodeVerificationFailed))
	s.Equal(errWrongCode.Error(), errNoChallenge.Error())
}

func (s *ServiceSuite) TestConfirmSignUpCodeIsSingleUse() {
	s.mockDir.EXPECT().RegisterPending(gomock.Any(), "a@test", "Passw0rd!").Return("reg-handle-1", nil)
	s.mockDir.EXPECT().ConfirmRegistration(gomock.Any(), "reg-handle-1").Return("acct-1", nil)
	s.mockDir.EXPECT().Authenticate(gomock.Any(), "a@test").Return("chal-ctx-1", nil)
	s.mockDir.EXPECT().IssueAccessToken(gomock.Any(), "chal-ctx-1").Return("access-token-1", nil)

	token, err := s.service.SignUp(s.ctx, SignUpRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)
	code := s.deliveredCode("a@test")

	_, err = s.service.ConfirmSignUp(s.ctx, token, code)
	s.Require().NoError(err)

	_, err = s.service.ConfirmSignUp(s.ctx, token, code)
	s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))
}

func (s *ServiceSuite) TestSkipSeedBackupKeepsVaultEmpty() {
	logger := s.service.logger
	manager := s.service.otp
	svc, err := New(Config{SkipSeedBackup: true}, manager, s.mockDir, s.seeds, WithLogger(logger))
	s.Require().NoError(err)

	s.mockDir.EXPECT().RegisterPending(gomock.Any(), "a@test", "Passw0rd!").Return("reg-handle-1", nil)
	s.mockDir.EXPECT().ConfirmRegistration(gomock.Any(), "reg-handle-1").Return("acct-1", nil)
	s.mockDir.EXPECT().Authenticate(gomock.Any(), "a@test").Return("chal-ctx-1", nil)
	s.mockDir.EXPECT().IssueAccessToken(gomock.Any(), "chal-ctx-1").Return("access-token-1", nil)

	token, err := svc.SignUp(s.ctx, SignUpRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)

	session, err := svc.ConfirmSignUp(s.ctx, token, s.deliveredCode("a@test"))
	s.Require().NoError(err)
	s.NotEmpty(session.EncryptedSeed)

	_, err = s.seeds.Retrieve(s.ctx, "acct-1")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}
