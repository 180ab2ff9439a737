package websearch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/poiesic/pitchfinder/core"
	"github.com/redis/go-redis/v9"
)

// DefaultCacheTTL is how long search hits stay cached.
const DefaultCacheTTL = 30 * time.Minute

const cacheKeyPrefix = "pitchfinder:search:"

// Cache stores search hits by request.
type Cache interface {
	// Get returns the cached hits for key. ok is false on a miss.
	Get(ctx context.Context, key string) (hits []core.RawHit, ok bool, err error)
	// Set stores hits under key for ttl.
	Set(ctx context.Context, key string, hits []core.RawHit, ttl time.Duration) error
}

// CacheKey derives the cache key of a request.
func CacheKey(req Request) string {
	sum := sha256.Sum256([]byte(req.Query + "|" + strconv.Itoa(req.MaxResults)))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// RedisCache is a Cache on Redis. Hits are stored as JSON.
type RedisCache struct {
	client *redis.Client
}

var _ Cache = (*RedisCache)(nil)

// NewRedisCache wraps an existing client.
func NewRedisCache(client *redis.Client) (*RedisCache, error) {
	if client == nil {
		return nil, ErrCacheRequired
	}
	return &RedisCache{client: client}, nil
}

// NewRedisCacheFromURL connects to a redis:// URL.
func NewRedisCacheFromURL(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

// Get implements Cache.
func (c *RedisCache) Get(ctx context.Context, key string) ([]core.RawHit, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached hits: %w", err)
	}

	var hits []core.RawHit
	if err := json.Unmarshal(data, &hits); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached hits: %w", err)
	}
	return hits, true, nil
}

// Set implements Cache.
func (c *RedisCache) Set(ctx context.Context, key string, hits []core.RawHit, ttl time.Duration) error {
	data, err := json.Marshal(hits)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache hits: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}
