package maps

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/nemt-pricing/internal/jurisdiction"
)

// KV is the subset of redis operations the geocode cache needs; small enough
// to fake in tests.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// CachedGeocoder memoizes county lookups in Redis. Geocoding a scheduled
// transport address book is highly repetitive, so hits are the common case.
type CachedGeocoder struct {
	inner jurisdiction.Geocoder
	kv    KV
	ttl   time.Duration
}

func NewCachedGeocoder(inner jurisdiction.Geocoder, kv KV, ttl time.Duration) *CachedGeocoder {
	return &CachedGeocoder{inner: inner, kv: kv, ttl: ttl}
}

func (c *CachedGeocoder) ResolveAdministrativeArea(ctx context.Context, address string) (string, error) {
	key := cacheKey(address)
	if v, err := c.kv.Get(ctx, key); err == nil && v != "" {
		return v, nil
	}
	county, err := c.inner.ResolveAdministrativeArea(ctx, address)
	if err != nil {
		return "", err
	}
	if county != "" {
		// best-effort: a failed cache write must not fail the lookup
		_ = c.kv.Set(ctx, key, county, c.ttl)
	}
	return county, nil
}

func cacheKey(address string) string { return "geocode:county:" + address }

// RedisKV backs the cache with a real redis client.
type RedisKV struct {
	client *redis.Client
}

func NewRedisKV(addr, password string) *RedisKV {
	return &RedisKV{client: redis.NewClient(&redis.Options{Addr: addr, Password: password})}
}

func (r *RedisKV) Get(ctx context.Context, key string) (string, error) {
	return r.client.Get(ctx, key).Result()
}

func (r *RedisKV) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}
