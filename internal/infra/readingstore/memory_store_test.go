package readingstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/astrotune/backend/internal/domain/horoscope"
)

func record(key string) horoscope.CacheRecord {
	return horoscope.CacheRecord{
		Key:     key,
		Reading: horoscope.Reading{Headline: "Steady As You Go", EnergyLevel: 64},
	}
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	_, ok, err := store.Get(ctx, "reading:leo:2026-01-02:UTC")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, store.Save(ctx, record("reading:leo:2026-01-02:UTC"), time.Hour))

	got, ok, err := store.Get(ctx, "reading:leo:2026-01-02:UTC")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Steady As You Go", got.Reading.Headline)
}

func TestMemoryStoreLazyEvictionAtMidnight(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	// Every sign cached for the day shares the same midnight expiry.
	for _, key := range []string{
		"reading:aries:2026-01-02:UTC",
		"reading:leo:2026-01-02:UTC",
		"reading:pisces:2026-01-02:UTC",
	} {
		require.NoError(t, store.Save(ctx, record(key), time.Hour))
	}

	// One minute past local midnight, every entry is gone at once.
	current = time.Date(2026, 1, 3, 0, 1, 0, 0, time.UTC)
	for _, key := range []string{
		"reading:aries:2026-01-02:UTC",
		"reading:leo:2026-01-02:UTC",
		"reading:pisces:2026-01-02:UTC",
	} {
		_, ok, err := store.Get(ctx, key)
		require.NoError(t, err)
		require.False(t, ok, key)
	}
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	current := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return current }

	require.NoError(t, store.Save(ctx, record("reading:virgo:2026-01-02:UTC"), 0))

	current = current.AddDate(0, 1, 0)
	_, ok, err := store.Get(ctx, "reading:virgo:2026-01-02:UTC")
	require.NoError(t, err)
	require.True(t, ok)
}
