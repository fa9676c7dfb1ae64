package otp

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"walletgate/internal/auth/delivery"
	"walletgate/internal/auth/models"
	"walletgate/internal/auth/store/challenge"
	dErrors "walletgate/pkg/domain-errors"
)

var testTemplate = models.MessageTemplate{
	Message: "Your verification code is: {{CODE}}",
	Subject: "Verification code",
}

type ManagerSuite struct {
	suite.Suite
	store   *challenge.InMemoryStore
	inbox   *delivery.Inbox
	manager *Manager
	ctx     context.Context
	now     time.Time
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupTest() {
	s.store = challenge.NewInMemoryStore()
	s.inbox = delivery.NewInbox()
	s.now = time.Now()
	s.manager = NewManager(s.store, s.inbox, WithClock(func() time.Time { return s.now }))
	s.ctx = context.Background()
}

// deliveredCode reads the OTP code back out of the rendered message, the way
// an end user would read their mail.
func (s *ManagerSuite) deliveredCode(principal string) string {
	msg, ok := s.inbox.Last(principal)
	require.True(s.T(), ok)
	return strings.TrimPrefix(msg.Body, "Your verification code is: ")
}

func (s *ManagerSuite) issue(principal string, flow models.Flow) string {
	token, err := s.manager.Issue(s.ctx, IssueRequest{
		Principal: principal,
		Flow:      flow,
		Template:  testTemplate,
	})
	require.NoError(s.T(), err)
	return token
}

func (s *ManagerSuite) TestIssueDeliversRenderedMessage() {
	token := s.issue("a@test", models.FlowSignUp)
	s.NotEmpty(token)

	msg, ok := s.inbox.Last("a@test")
	require.True(s.T(), ok)
	s.Equal("Verification code", msg.Subject)
	s.NotContains(msg.Body, "{{CODE}}")
	s.Len(s.deliveredCode("a@test"), 6)
}

func (s *ManagerSuite) TestIssueRejectsTemplateWithoutPlaceholder() {
	_, err := s.manager.Issue(s.ctx, IssueRequest{
		Principal: "a@test",
		Flow:      models.FlowSignUp,
		Template:  models.MessageTemplate{Message: "no placeholder here", Subject: "x"},
	})
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidInput))
}

func (s *ManagerSuite) TestIssueSurfacesDeliveryError() {
	s.inbox.SetFailing(true)

	token, err := s.manager.Issue(s.ctx, IssueRequest{
		Principal: "a@test",
		Flow:      models.FlowSignUp,
		Template:  testTemplate,
	})
	s.Empty(token)
	s.True(dErrors.HasCode(err, dErrors.CodeDeliveryError))
}

func (s *ManagerSuite) TestVerifySucceedsExactlyOnce() {
	token := s.issue("a@test", models.FlowSignUp)
	code := s.deliveredCode("a@test")

	ch, err := s.manager.Verify(s.ctx, token, code, models.FlowSignUp)
	require.NoError(s.T(), err)
	s.Equal("a@test", ch.Principal)

	// Replay with the same code fails generically.
	_, err = s.manager.Verify(s.ctx, token, code, models.FlowSignUp)
	s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))
}

func (s *ManagerSuite) TestVerifyWrongCodeIndistinguishableFromMissingChallenge() {
	token := s.issue("a@test", models.FlowSignUp)

	_, errWrongCode := s.manager.Verify(s.ctx, token, "000000", models.FlowSignUp)
	_, errNoChallenge := s.manager.Verify(s.ctx, "no-such-token", "000000", models.FlowSignUp)

	s.True(dErrors.HasCode(errWrongCode, dErrors.CodeVerificationFailed))
	s.True(dErrors.HasCode(errNoChallenge, dErrors.CodeVerificationFailed))
	s.Equal(errWrongCode.Error(), errNoChallenge.Error())
}

func (s *ManagerSuite) TestVerifyWrongFlowFails() {
	token := s.issue("a@test", models.FlowSignUp)
	code := s.deliveredCode("a@test")

	_, err := s.manager.Verify(s.ctx, token, code, models.FlowSignIn)
	s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))
}

func (s *ManagerSuite) TestVerifyAfterExpiryFailsEvenWithCorrectCode() {
	token := s.issue("a@test", models.FlowSignUp)
	code := s.deliveredCode("a@test")

	s.now = s.now.Add(11 * time.Minute)

	_, err := s.manager.Verify(s.ctx, token, code, models.FlowSignUp)
	s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))
}

func (s *ManagerSuite) TestRetryAllowedUntilExpiry() {
	token := s.issue("a@test", models.FlowSignUp)
	code := s.deliveredCode("a@test")

	// No artificial attempt cap: wrong codes may be retried until expiry.
	for range 5 {
		_, err := s.manager.Verify(s.ctx, token, "999999", models.FlowSignUp)
		s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))
	}

	_, err := s.manager.Verify(s.ctx, token, code, models.FlowSignUp)
	s.NoError(err)
}

func (s *ManagerSuite) TestReissueInvalidatesPriorChallenge() {
	first := s.issue("a@test", models.FlowSignUp)
	firstCode := s.deliveredCode("a@test")

	second := s.issue("a@test", models.FlowSignUp)
	secondCode := s.deliveredCode("a@test")

	_, err := s.manager.Verify(s.ctx, first, firstCode, models.FlowSignUp)
	s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))

	_, err = s.manager.Verify(s.ctx, second, secondCode, models.FlowSignUp)
	s.NoError(err)
}

func (s *ManagerSuite) TestConcurrentVerifyExactlyOneWinner() {
	token := s.issue("a@test", models.FlowSignIn)
	code := s.deliveredCode("a@test")

	const racers = 8
	var wg sync.WaitGroup
	wins := make(chan struct{}, racers)
	failures := make(chan error, racers)
	for range racers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.manager.Verify(s.ctx, token, code, models.FlowSignIn); err == nil {
				wins <- struct{}{}
			} else {
				failures <- err
			}
		}()
	}
	wg.Wait()
	close(wins)
	close(failures)

	s.Len(wins, 1)
	for err := range failures {
		s.True(dErrors.HasCode(err, dErrors.CodeVerificationFailed))
	}
}
