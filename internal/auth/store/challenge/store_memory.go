package challenge

import (
	"context"
	"sync"
	"time"

	"walletgate/internal/auth/models"
)

// InMemoryStore keeps challenges in memory for tests/dev.
// It is safe for concurrent access but does not persist across restarts.
type InMemoryStore struct {
	mu         sync.Mutex
	challenges map[string]*models.Challenge
}

// NewInMemoryStore constructs an empty in-memory challenge store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{challenges: make(map[string]*models.Challenge)}
}

func (s *InMemoryStore) Create(_ context.Context, ch *models.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *ch
	s.challenges[ch.Token] = &cp
	return nil
}

func (s *InMemoryStore) FindByToken(_ context.Context, token string) (*models.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ch, ok := s.challenges[token]; ok {
		cp := *ch
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (s *InMemoryStore) Consume(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch, ok := s.challenges[token]
	if !ok {
		return ErrNotFound
	}
	if ch.Consumed {
		return ErrAlreadyConsumed
	}
	ch.Consumed = true
	return nil
}

func (s *InMemoryStore) InvalidateByPrincipal(_ context.Context, principal string, flow models.Flow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for token, ch := range s.challenges {
		if ch.Principal == principal && ch.Flow == flow {
			delete(s.challenges, token)
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for token, ch := range s.challenges {
		if now.After(ch.ExpiresAt) {
			delete(s.challenges, token)
			deleted++
		}
	}
	return deleted, nil
}
