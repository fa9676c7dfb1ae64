package vault

import (
	"context"
	"sync"
)

// InMemoryStore keeps encrypted seeds in memory for tests/dev.
type InMemoryStore struct {
	mu    sync.RWMutex
	seeds map[string]string
}

// NewInMemoryStore constructs an empty in-memory seed store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{seeds: make(map[string]string)}
}

func (s *InMemoryStore) Put(_ context.Context, identity, ciphertext string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seeds[identity] = ciphertext
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, identity string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if ciphertext, ok := s.seeds[identity]; ok {
		return ciphertext, nil
	}
	return "", ErrNotFound
}

func (s *InMemoryStore) Delete(_ context.Context, identity string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seeds, identity)
	return nil
}
