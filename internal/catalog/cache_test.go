package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftpos/swiftpos/internal/money"
)

func newTestCache(t *testing.T) (*ScanCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewScanCache(client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return cache, mr
}

func TestScanCacheReadThrough(t *testing.T) {
	cache, _ := newTestCache(t)

	fetches := 0
	fetch := func(context.Context) (*Product, error) {
		fetches++
		return &Product{ID: 1, ScanCode: "QR-COLA-01", Name: "Cola", Price: money.FromCents(1999)}, nil
	}

	p, err := cache.Lookup(context.Background(), "QR-COLA-01", fetch)
	require.NoError(t, err)
	assert.Equal(t, "Cola", p.Name)
	assert.Equal(t, 1, fetches)

	// Second lookup is served from Redis.
	p, err = cache.Lookup(context.Background(), "QR-COLA-01", fetch)
	require.NoError(t, err)
	assert.Equal(t, "19.99", p.Price.String())
	assert.Equal(t, 1, fetches)
}

func TestScanCacheAbsentNotCached(t *testing.T) {
	cache, mr := newTestCache(t)

	fetches := 0
	fetch := func(context.Context) (*Product, error) {
		fetches++
		return nil, ErrNotFound
	}

	_, err := cache.Lookup(context.Background(), "QR-GHOST", fetch)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = cache.Lookup(context.Background(), "QR-GHOST", fetch)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 2, fetches, "misses must not be cached")
	assert.False(t, mr.Exists(scanKeyPrefix+"QR-GHOST"))
}

func TestScanCacheInvalidate(t *testing.T) {
	cache, mr := newTestCache(t)

	fetches := 0
	fetch := func(context.Context) (*Product, error) {
		fetches++
		return &Product{ID: 1, ScanCode: "QR-COLA-01", Name: "Cola", Price: money.FromCents(1999)}, nil
	}

	_, err := cache.Lookup(context.Background(), "QR-COLA-01", fetch)
	require.NoError(t, err)
	require.True(t, mr.Exists(scanKeyPrefix+"QR-COLA-01"))

	cache.Invalidate(context.Background(), "QR-COLA-01", "")
	assert.False(t, mr.Exists(scanKeyPrefix+"QR-COLA-01"))

	_, err = cache.Lookup(context.Background(), "QR-COLA-01", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestScanCacheDegradesWhenRedisDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	fetch := func(context.Context) (*Product, error) {
		return &Product{ID: 1, ScanCode: "QR-COLA-01", Name: "Cola", Price: money.FromCents(1999)}, nil
	}

	p, err := cache.Lookup(context.Background(), "QR-COLA-01", fetch)
	require.NoError(t, err)
	assert.Equal(t, "Cola", p.Name)
}
