package service

import (
	"go.uber.org/mock/gomock"

	"walletgate/internal/seed"
	dErrors "walletgate/pkg/domain-errors"
)

func (s *ServiceSuite) seedBackup(accountID, password string) string {
	plaintext, err := seed.Generate()
	s.Require().NoError(err)
	ciphertext, err := seed.Encrypt(password, plaintext)
	s.Require().NoError(err)
	s.Require().NoError(s.seeds.Store(s.ctx, accountID, ciphertext))
	return ciphertext
}

func (s *ServiceSuite) TestSignInDeliversCode() {
	s.mockDir.EXPECT().Authenticate(gomock.Any(), "a@test").Return("chal-ctx-1", nil)

	token, err := s.service.SignIn(s.ctx, SignInRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)
	s.NotEmpty(token)
	s.Len(s.deliveredCode("a@test"), 6)
}

func (s *ServiceSuite) TestSignInSurfacesUnknownPrincipal() {
	s.mockDir.EXPECT().Authenticate(gomock.Any(), "nobody@test").
		Return("", dErrors.New(dErrors.CodeUnknownPrincipal, "no such account"))

	_, err := s.service.SignIn(s.ctx, SignInRequest{
		Principal: "nobody@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.True(dErrors.HasCode(err, dErrors.CodeUnknownPrincipal))
}

func (s *ServiceSuite) TestConfirmSignInRestoresSeed() {
	ciphertext := s.seedBackup("acct-1", "Passw0rd!")

	s.mockDir.EXPECT().Authenticate(gomock.Any(), "a@test").Return("chal-ctx-1", nil)
	s.mockDir.EXPECT().IssueAccessToken(gomock.Any(), "chal-ctx-1").Return("access-token-2", nil)
	s.mockDir.EXPECT().Validate(gomock.Any(), "access-token-2").Return("acct-1", nil)

	token, err := s.service.SignIn(s.ctx, SignInRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)

	session, err := s.service.ConfirmSignIn(s.ctx, token, s.deliveredCode("a@test"), "")
	s.Require().NoError(err)
	s.Equal("access-token-2", session.AccessToken)
	s.Equal(ciphertext, session.EncryptedSeed)

	plaintext, err := seed.Decrypt(session.Password, session.EncryptedSeed)
	s.Require().NoError(err)
	s.NotEmpty(plaintext)
}

func (s *ServiceSuite) TestConfirmSignInWithoutBackupLeavesSeedEmpty() {
	s.mockDir.EXPECT().Authenticate(gomock.Any(), "a@test").Return("chal-ctx-1", nil)
	s.mockDir.EXPECT().IssueAccessToken(gomock.Any(), "chal-ctx-1").Return("access-token-2", nil)
	s.mockDir.EXPECT().Validate(gomock.Any(), "access-token-2").Return("acct-unbacked", nil)

	token, err := s.service.SignIn(s.ctx, SignInRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)

	session, err := s.service.ConfirmSignIn(s.ctx, token, s.deliveredCode("a@test"), "")
	s.Require().NoError(err)
	s.Empty(session.EncryptedSeed)
}

func (s *ServiceSuite) TestConfirmSignInRejectsSignUpChallenge() {
	s.mockDir.EXPECT().RegisterPending(gomock.Any(), "a@test", "Passw0rd!").Return("reg-handle-1", nil)

	token, err := s.service.SignUp(s.ctx, SignUpRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
	})
	s.Require().NoError(err)

	// The code is valid but belongs to the sign-up flow; confirming sign-in
	// with it must look exactly like any other failed verification.
	_, err = s.service.ConfirmSignIn(s.ctx, token, s.deliveredCode("a@test"), "")
	s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))
}

func (s *ServiceSuite) TestConfirmSignInWithDeviceBinding() {
	logger := s.service.logger
	svc, err := New(Config{DeviceBindingEnabled: true}, s.service.otp, s.mockDir, s.seeds, WithLogger(logger))
	s.Require().NoError(err)

	const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	const firefoxUA = "Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0"

	s.mockDir.EXPECT().Authenticate(gomock.Any(), "a@test").Return("chal-ctx-1", nil)

	token, err := svc.SignIn(s.ctx, SignInRequest{
		Principal: "a@test",
		Password:  "Passw0rd!",
		Template:  testTemplate,
		UserAgent: chromeUA,
	})
	s.Require().NoError(err)

	_, err = svc.ConfirmSignIn(s.ctx, token, s.deliveredCode("a@test"), firefoxUA)
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}
