package service

//go:generate mockgen -source=../directory/directory.go -destination=mocks/mocks.go -package=mocks Directory

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"walletgate/internal/auth/delivery"
	"walletgate/internal/auth/models"
	"walletgate/internal/auth/otp"
	"walletgate/internal/auth/service/mocks"
	"walletgate/internal/auth/store/challenge"
	"walletgate/internal/vault"
)

const codePrefix = "Your wallet code is "

var testTemplate = models.MessageTemplate{
	Message: codePrefix + models.CodePlaceholder,
	Subject: "Confirmation code",
}

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	mockDir *mocks.MockDirectory
	inbox   *delivery.Inbox
	seeds   *vault.Service
	service *Service
	ctx     context.Context
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockDir = mocks.NewMockDirectory(s.ctrl)
	s.inbox = delivery.NewInbox()
	s.seeds = vault.NewService(vault.NewInMemoryStore())
	s.ctx = context.Background()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	manager := otp.NewManager(challenge.NewInMemoryStore(), s.inbox, otp.WithLogger(logger))

	var err error
	s.service, err = New(Config{}, manager, s.mockDir, s.seeds, WithLogger(logger))
	s.Require().NoError(err)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

// deliveredCode reads the OTP back from the in-memory inbox the way an end
// user would read their mail.
func (s *ServiceSuite) deliveredCode(principal string) string {
	msg, ok := s.inbox.Last(principal)
	s.Require().True(ok, "no message delivered to %s", principal)
	s.Require().True(strings.HasPrefix(msg.Body, codePrefix))
	return strings.TrimPrefix(msg.Body, codePrefix)
}
