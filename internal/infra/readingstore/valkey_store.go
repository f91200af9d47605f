package readingstore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/astrotune/backend/internal/domain/horoscope"
)

// ValkeyStore shares the reading cache across instances through a
// Valkey-compatible database. Keys already embed sign, date and timezone,
// so the prefix only namespaces the application.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "horoscope"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Get(ctx context.Context, key string) (horoscope.CacheRecord, bool, error) {
	cmd := s.client.B().Get().Key(s.namespaced(key)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return horoscope.CacheRecord{}, false, nil
		}
		return horoscope.CacheRecord{}, false, err
	}
	var record horoscope.CacheRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return horoscope.CacheRecord{}, false, err
	}
	return record, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, record horoscope.CacheRecord, ttl time.Duration) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	builder := s.client.B().Set().Key(s.namespaced(record.Key)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) namespaced(key string) string {
	return s.prefix + ":" + key
}

var _ horoscope.Store = (*ValkeyStore)(nil)
