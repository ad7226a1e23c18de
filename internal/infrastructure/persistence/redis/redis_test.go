package redis

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewClientFromRedis(rdb), mr
}

func TestCache_GetOrLoadSafe(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	var loads int32
	loader := func() (any, error) {
		atomic.AddInt32(&loads, 1)
		return []string{"a", "b"}, nil
	}

	first, err := cache.GetOrLoadSafe(ctx, FavoritesKey("u1"), time.Minute, loader)
	require.NoError(t, err)
	second, err := cache.GetOrLoadSafe(ctx, FavoritesKey("u1"), time.Minute, loader)
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&loads))
	assert.JSONEq(t, `["a","b"]`, string(first))
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("favorites:u1"))
	assert.Equal(t, time.Minute, mr.TTL("favorites:u1"))
}

func TestCache_GetOrLoadSafe_ConcurrentLoadsShareResult(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewCache(client)

	var loads int32
	release := make(chan struct{})
	loader := func() (any, error) {
		atomic.AddInt32(&loads, 1)
		<-release
		return map[string]int{"n": 1}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := cache.GetOrLoadSafe(context.Background(), "k", time.Minute, loader)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, atomic.LoadInt32(&loads), int32(5))
	assert.GreaterOrEqual(t, atomic.LoadInt32(&loads), int32(1))
}

func TestCache_GetOrLoadSafe_LoaderError(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client)

	boom := errors.New("db down")
	_, err := cache.GetOrLoadSafe(context.Background(), "k", time.Minute, func() (any, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("k"))
}

func TestCache_GetOrLoadSafe_RedisDownFallsBackToLoader(t *testing.T) {
	client, mr := newTestClient(t)
	cache := NewCache(client)
	mr.Close()

	val, err := cache.GetOrLoadSafe(context.Background(), "k", time.Minute, func() (any, error) {
		return "fresh", nil
	})
	require.NoError(t, err)
	assert.Equal(t, `"fresh"`, string(val))
}

func TestCache_SetGetDelete(t *testing.T) {
	client, _ := newTestClient(t)
	cache := NewCache(client)
	ctx := context.Background()

	_, err := cache.Get(ctx, "missing")
	assert.True(t, IsNil(err))

	require.NoError(t, cache.Set(ctx, "k", map[string]string{"x": "y"}, time.Minute))
	raw, err := cache.Get(ctx, "k")
	require.NoError(t, err)

	var got map[string]string
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "y", got["x"])

	require.NoError(t, cache.Delete(ctx, "k"))
	_, err = cache.Get(ctx, "k")
	assert.True(t, IsNil(err))
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	client, _ := newTestClient(t)
	limiter := NewRateLimiter(client)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return base }
	key := BuildRateLimitKey("generate", "user-1")
	assert.Equal(t, "ratelimit:generate:user-1", key)

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key, 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok, "request %d", i)
	}

	ok, err := limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	remaining, err := limiter.Remaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	other, err := limiter.Allow(ctx, BuildRateLimitKey("generate", "10.0.0.1"), 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, other)

	limiter.now = func() time.Time { return base.Add(time.Minute) }
	ok, err = limiter.Allow(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	remaining, err = limiter.Remaining(ctx, key, 3, time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestRateLimiter_RedisDown(t *testing.T) {
	client, mr := newTestClient(t)
	limiter := NewRateLimiter(client)
	mr.Close()

	_, err := limiter.Allow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}
