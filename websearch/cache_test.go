package websearch

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/poiesic/pitchfinder/core"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache, err := NewRedisCache(client)
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return mr, cache
}

func TestRedisCache_RoundTrip(t *testing.T) {
	mr, cache := setupTestRedis(t)
	ctx := context.Background()
	key := CacheKey(Request{Query: "pitch", MaxResults: 10})

	_, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	hits := []core.RawHit{{Title: "Demo Day", URL: "https://lu.ma/demo", Source: SourceTavily, Score: 0.7}}
	require.NoError(t, cache.Set(ctx, key, hits, time.Minute))
	require.NoError(t, cache.Ping(ctx))

	got, ok, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, hits, got)

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	mr, cache := setupTestRedis(t)
	key := CacheKey(Request{Query: "pitch"})
	require.NoError(t, mr.Set(key, "{"))

	_, _, err := cache.Get(context.Background(), key)
	assert.Error(t, err)
}

func TestCacheKey(t *testing.T) {
	a := CacheKey(Request{Query: "pitch", MaxResults: 10})
	assert.Equal(t, a, CacheKey(Request{Query: "pitch", MaxResults: 10, SearchDepth: "basic"}))
	assert.NotEqual(t, a, CacheKey(Request{Query: "pitch", MaxResults: 20}))
	assert.NotEqual(t, a, CacheKey(Request{Query: "demo", MaxResults: 10}))
	assert.Contains(t, a, cacheKeyPrefix)
}

func TestNewRedisCache(t *testing.T) {
	_, err := NewRedisCache(nil)
	assert.ErrorIs(t, err, ErrCacheRequired)

	_, err = NewRedisCacheFromURL("not a url")
	assert.Error(t, err)

	mr := miniredis.RunT(t)
	cache, err := NewRedisCacheFromURL("redis://" + mr.Addr() + "/0")
	require.NoError(t, err)
	defer cache.Close()
	assert.NoError(t, cache.Ping(context.Background()))
}
