package horoscope

import (
	"context"
	"time"
)

// Store defines the persistence contract for cached readings. Entries carry
// a TTL that expires at local midnight in the reading's timezone; a missing
// or expired entry is a normal miss, not an error.
type Store interface {
	Get(ctx context.Context, key string) (CacheRecord, bool, error)
	Save(ctx context.Context, record CacheRecord, ttl time.Duration) error
}
