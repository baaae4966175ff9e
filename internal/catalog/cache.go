package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const scanKeyPrefix = "catalog:scan:"

// ScanCache is a read-through Redis cache for scan-code lookups. Registers
// hammer the same handful of codes, so concurrent misses for one code are
// collapsed into a single database fetch via singleflight.
type ScanCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
	group  singleflight.Group
}

// NewScanCache creates a scan-code cache with the given entry TTL.
func NewScanCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *ScanCache {
	return &ScanCache{client: client, ttl: ttl, logger: logger}
}

// Lookup returns the product for a scan code, consulting Redis first and
// falling back to fetch on miss. Cache failures degrade to a direct fetch;
// absent products are never cached.
func (c *ScanCache) Lookup(ctx context.Context, code string, fetch func(context.Context) (*Product, error)) (*Product, error) {
	key := scanKeyPrefix + code

	raw, err := c.client.Get(ctx, key).Bytes()
	if err == nil {
		var p Product
		if err := json.Unmarshal(raw, &p); err == nil {
			return &p, nil
		}
		c.logger.Warn("decode cached product", slog.String("scan_code", code))
	} else if !errors.Is(err, redis.Nil) {
		c.logger.Warn("scan cache get", slog.Any("error", err))
		return fetch(ctx)
	}

	v, err, _ := c.group.Do(code, func() (interface{}, error) {
		p, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		if data, err := json.Marshal(p); err == nil {
			if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
				c.logger.Warn("scan cache set", slog.Any("error", err))
			}
		}
		return p, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Product), nil
}

// Invalidate drops cached entries for the given scan codes. Called after a
// product update so stale names and prices do not linger for the TTL.
func (c *ScanCache) Invalidate(ctx context.Context, codes ...string) {
	keys := make([]string, 0, len(codes))
	for _, code := range codes {
		if code != "" {
			keys = append(keys, scanKeyPrefix+code)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("scan cache invalidate", slog.Any("error", err))
	}
}
