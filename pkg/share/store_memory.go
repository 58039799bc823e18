package share

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps documents in a map. Expired entries are removed on access.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Record
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]Record)}
}

func (s *MemoryStore) Put(ctx context.Context, doc Document, ttl time.Duration) (string, error) {
	rec := NewRecord(doc, ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.ID] = rec
	return rec.ID, nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Document, error) {
	s.mu.RLock()
	rec, ok := s.records[id]
	s.mu.RUnlock()

	if !ok {
		return Document{}, ErrNotFound
	}
	if rec.IsExpired() {
		_ = s.Delete(ctx, id)
		return Document{}, ErrNotFound
	}
	return rec.Document, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
