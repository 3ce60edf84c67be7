package cache

import (
	"context"
	"errors"
	"time"
)

// Default TTLs per entry kind. Level data changes when the API publishes a
// new period; artifacts are derived from levels and can live as long.
const (
	TTLHTTP     = 24 * time.Hour
	TTLLevel    = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// ErrCacheMiss is returned by helpers that need to report a miss as an error.
var ErrCacheMiss = errors.New("cache miss")

// Cache is a byte-oriented key/value store with per-entry expiry.
//
// Get reports a miss with ok=false and a nil error. Backend failures are
// returned as errors; callers typically log them and fall through to a
// recompute.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// GetOrSet returns the cached value for key or computes, stores and returns
// it. Backend errors on Get are treated as misses and errors on Set are
// ignored, so a broken cache degrades to recomputation.
func GetOrSet(ctx context.Context, c Cache, key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	if data, ok, err := c.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}
	data, err := compute()
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(ctx, key, data, ttl)
	return data, false, nil
}

// NullCache never stores anything. It backs --no-cache and tests.
type NullCache struct{}

func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NullCache) Delete(context.Context, string) error                     { return nil }
func (NullCache) Close() error                                             { return nil }
