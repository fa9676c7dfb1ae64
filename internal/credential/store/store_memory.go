package store

import (
	"context"
	"sync"

	"walletgate/internal/credential/models"
)

// shard holds one identity's records behind its own lock, so traffic for
// different identities never contends.
type shard struct {
	mu      sync.Mutex
	records []models.Record
	ids     map[string]struct{}
}

// InMemoryStore keeps credential records in memory for tests/dev.
type InMemoryStore struct {
	mu     sync.Mutex
	shards map[string]*shard
}

// NewInMemoryStore constructs an empty in-memory credential store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{shards: make(map[string]*shard)}
}

func (s *InMemoryStore) shardFor(identity string) *shard {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shards[identity]
	if !ok {
		sh = &shard{ids: make(map[string]struct{})}
		s.shards[identity] = sh
	}
	return sh
}

func (s *InMemoryStore) Append(_ context.Context, identity string, records []models.Record) error {
	sh := s.shardFor(identity)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	// Validate the whole batch before touching the sequence.
	batch := make(map[string]struct{}, len(records))
	for _, record := range records {
		if _, stored := sh.ids[record.ID]; stored {
			return ErrDuplicateID
		}
		if _, dup := batch[record.ID]; dup {
			return ErrDuplicateID
		}
		batch[record.ID] = struct{}{}
	}

	for _, record := range records {
		sh.records = append(sh.records, record)
		sh.ids[record.ID] = struct{}{}
	}
	return nil
}

func (s *InMemoryStore) List(_ context.Context, identity string) ([]models.Record, error) {
	sh := s.shardFor(identity)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	out := make([]models.Record, len(sh.records))
	copy(out, sh.records)
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, identity, id string) error {
	sh := s.shardFor(identity)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	if _, ok := sh.ids[id]; !ok {
		return nil
	}
	delete(sh.ids, id)
	for i, record := range sh.records {
		if record.ID == id {
			sh.records = append(sh.records[:i], sh.records[i+1:]...)
			break
		}
	}
	return nil
}

func (s *InMemoryStore) DeleteAll(_ context.Context, identity string) error {
	sh := s.shardFor(identity)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	sh.records = nil
	sh.ids = make(map[string]struct{})
	return nil
}

var _ Store = (*InMemoryStore)(nil)
