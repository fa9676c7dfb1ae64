package service

import (
	"go.uber.org/mock/gomock"

	dErrors "walletgate/pkg/domain-errors"
)

func (s *ServiceSuite) TestSignOutRevokesToken() {
	s.mockDir.EXPECT().Revoke(gomock.Any(), "access-token-1").Return(nil)
	s.NoError(s.service.SignOut(s.ctx, "access-token-1"))
}

func (s *ServiceSuite) TestSignOutIsRepeatable() {
	// The directory treats revoking an already revoked token as success.
	s.mockDir.EXPECT().Revoke(gomock.Any(), "access-token-1").Return(nil).Times(2)
	s.NoError(s.service.SignOut(s.ctx, "access-token-1"))
	s.NoError(s.service.SignOut(s.ctx, "access-token-1"))
}

func (s *ServiceSuite) TestSignOutRequiresToken() {
	s.True(dErrors.HasCode(s.service.SignOut(s.ctx, ""), dErrors.CodeInvalidInput))
}

func (s *ServiceSuite) TestStoreEncryptedSeedRotates() {
	s.mockDir.EXPECT().Validate(gomock.Any(), "access-token-1").Return("acct-1", nil).Times(2)

	s.Require().NoError(s.service.StoreEncryptedSeed(s.ctx, "access-token-1", "ciphertext-v1"))
	s.Require().NoError(s.service.StoreEncryptedSeed(s.ctx, "access-token-1", "ciphertext-v2"))

	stored, err := s.seeds.Retrieve(s.ctx, "acct-1")
	s.Require().NoError(err)
	s.Equal("ciphertext-v2", stored)
}

func (s *ServiceSuite) TestStoreEncryptedSeedRequiresValidToken() {
	s.mockDir.EXPECT().Validate(gomock.Any(), "revoked-token").
		Return("", dErrors.New(dErrors.CodeUnauthenticated, "invalid access token"))

	err := s.service.StoreEncryptedSeed(s.ctx, "revoked-token", "ciphertext-v1")
	s.True(dErrors.HasCode(err, dErrors.CodeUnauthenticated))
}

func (s *ServiceSuite) TestStoreEncryptedSeedRequiresCiphertext() {
	err := s.service.StoreEncryptedSeed(s.ctx, "access-token-1", "")
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
