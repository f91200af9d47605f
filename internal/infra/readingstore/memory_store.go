package readingstore

import (
	"context"
	"sync"
	"time"

	"github.com/astrotune/backend/internal/domain/horoscope"
)

type entry struct {
	record    horoscope.CacheRecord
	expiresAt time.Time
}

// MemoryStore is the in-process reading cache used for tests, development
// and single-instance deployments. Expired entries are evicted lazily on
// the next lookup rather than swept.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Get implements horoscope.Store.
func (s *MemoryStore) Get(_ context.Context, key string) (horoscope.CacheRecord, bool, error) {
	s.mu.RLock()
	item, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return horoscope.CacheRecord{}, false, nil
	}
	if !item.expiresAt.IsZero() && !item.expiresAt.After(s.now()) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return horoscope.CacheRecord{}, false, nil
	}
	return item.record, true, nil
}

// Save caches the reading until its midnight expiry.
func (s *MemoryStore) Save(_ context.Context, record horoscope.CacheRecord, ttl time.Duration) error {
	exp := time.Time{}
	if ttl > 0 {
		exp = s.now().Add(ttl)
	}
	s.mu.Lock()
	s.entries[record.Key] = entry{record: record, expiresAt: exp}
	s.mu.Unlock()
	return nil
}

var _ horoscope.Store = (*MemoryStore)(nil)
