package share

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/brandqr/pkg/cache"
)

// CacheStore keeps documents in a cache.Cache, typically a RedisCache shared
// by all server replicas. Expiry is delegated to the cache TTL.
type CacheStore struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewCacheStore wraps c. A nil keyer uses cache.NewDefaultKeyer.
func NewCacheStore(c cache.Cache, keyer cache.Keyer) *CacheStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CacheStore{cache: c, keyer: keyer}
}

func (s *CacheStore) Put(ctx context.Context, doc Document, ttl time.Duration) (string, error) {
	rec := NewRecord(doc, ttl)
	data, err := json.Marshal(rec)
	if err != nil {
		return "", fmt.Errorf("marshal share: %w", err)
	}
	if err := s.cache.Set(ctx, s.keyer.ShareKey(rec.ID), data, time.Until(rec.ExpiresAt)); err != nil {
		return "", fmt.Errorf("store share: %w", err)
	}
	return rec.ID, nil
}

func (s *CacheStore) Get(ctx context.Context, id string) (Document, error) {
	if !ValidID(id) {
		return Document{}, ErrNotFound
	}
	data, hit, err := s.cache.Get(ctx, s.keyer.ShareKey(id))
	if err != nil {
		return Document{}, fmt.Errorf("load share: %w", err)
	}
	if !hit {
		return Document{}, ErrNotFound
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Document{}, fmt.Errorf("parse share: %w", err)
	}
	if rec.IsExpired() {
		return Document{}, ErrNotFound
	}
	return rec.Document, nil
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, s.keyer.ShareKey(id))
}

// Close is a no-op; the cache belongs to the caller.
func (s *CacheStore) Close() error { return nil }

var _ Store = (*CacheStore)(nil)
