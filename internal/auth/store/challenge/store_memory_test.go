package challenge

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"walletgate/internal/auth/models"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
}

func (s *InMemoryStoreSuite) newChallenge(token, principal string, flow models.Flow) *models.Challenge {
	now := time.Now()
	return &models.Challenge{
		Token:     token,
		Principal: principal,
		Code:      "123456",
		Flow:      flow,
		CreatedAt: now,
		ExpiresAt: now.Add(10 * time.Minute),
	}
}

func (s *InMemoryStoreSuite) TestCreateAndFind() {
	ch := s.newChallenge("tok-1", "a@test", models.FlowSignUp)
	require.NoError(s.T(), s.store.Create(context.Background(), ch))

	found, err := s.store.FindByToken(context.Background(), "tok-1")
	require.NoError(s.T(), err)
	s.Equal("a@test", found.Principal)
	s.Equal(models.FlowSignUp, found.Flow)
	s.False(found.Consumed)
}

func (s *InMemoryStoreSuite) TestFindNotFound() {
	_, err := s.store.FindByToken(context.Background(), "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *InMemoryStoreSuite) TestConsumeExactlyOnce() {
	ch := s.newChallenge("tok-1", "a@test", models.FlowSignIn)
	require.NoError(s.T(), s.store.Create(context.Background(), ch))

	require.NoError(s.T(), s.store.Consume(context.Background(), "tok-1"))
	s.ErrorIs(s.store.Consume(context.Background(), "tok-1"), ErrAlreadyConsumed)

	found, err := s.store.FindByToken(context.Background(), "tok-1")
	require.NoError(s.T(), err)
	s.True(found.Consumed)
}

func (s *InMemoryStoreSuite) TestConsumeRace() {
	ch := s.newChallenge("tok-1", "a@test", models.FlowSignIn)
	require.NoError(s.T(), s.store.Create(context.Background(), ch))

	const attempts = 16
	var wg sync.WaitGroup
	wins := make(chan struct{}, attempts)
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if s.store.Consume(context.Background(), "tok-1") == nil {
				wins <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(wins)
	s.Len(wins, 1)
}

func (s *InMemoryStoreSuite) TestInvalidateByPrincipalScopedToFlow() {
	require.NoError(s.T(), s.store.Create(context.Background(), s.newChallenge("tok-up", "a@test", models.FlowSignUp)))
	require.NoError(s.T(), s.store.Create(context.Background(), s.newChallenge("tok-in", "a@test", models.FlowSignIn)))
	require.NoError(s.T(), s.store.Create(context.Background(), s.newChallenge("tok-other", "b@test", models.FlowSignUp)))

	require.NoError(s.T(), s.store.InvalidateByPrincipal(context.Background(), "a@test", models.FlowSignUp))

	_, err := s.store.FindByToken(context.Background(), "tok-up")
	s.ErrorIs(err, ErrNotFound)

	_, err = s.store.FindByToken(context.Background(), "tok-in")
	s.NoError(err)

	_, err = s.store.FindByToken(context.Background(), "tok-other")
	s.NoError(err)
}

func (s *InMemoryStoreSuite) TestDeleteExpired() {
	fresh := s.newChallenge("tok-fresh", "a@test", models.FlowSignUp)
	stale := s.newChallenge("tok-stale", "b@test", models.FlowSignUp)
	stale.ExpiresAt = time.Now().Add(-time.Minute)

	require.NoError(s.T(), s.store.Create(context.Background(), fresh))
	require.NoError(s.T(), s.store.Create(context.Background(), stale))

	deleted, err := s.store.DeleteExpired(context.Background(), time.Now())
	require.NoError(s.T(), err)
	s.Equal(1, deleted)

	_, err = s.store.FindByToken(context.Background(), "tok-stale")
	s.ErrorIs(err, ErrNotFound)
}
