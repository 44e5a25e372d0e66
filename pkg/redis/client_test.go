package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/config"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	server := miniredis.RunT(t)
	client := Wrap(redis.NewClient(&redis.Options{Addr: server.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return client, server
}

func TestFixedWindowAllow(t *testing.T) {
	ctx := context.Background()
	client, server := newTestClient(t)

	allowed, count, err := client.FixedWindowAllow(ctx, "writes:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)
	require.EqualValues(t, 1, count)
	require.Equal(t, time.Minute, server.TTL("shopadmin:rate_limit:writes:1.2.3.4"))

	allowed, count, err = client.FixedWindowAllow(ctx, "writes:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)
	require.EqualValues(t, 2, count)

	allowed, _, err = client.FixedWindowAllow(ctx, "writes:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	require.False(t, allowed)

	server.FastForward(time.Minute + time.Second)

	allowed, count, err = client.FixedWindowAllow(ctx, "writes:1.2.3.4", 2, time.Minute)
	require.NoError(t, err)
	require.True(t, allowed)
	require.EqualValues(t, 1, count)
}

func TestSetNXGetDel(t *testing.T) {
	ctx := context.Background()
	client, _ := newTestClient(t)
	key := client.IdempotencyKey("POST|/api/admin/orders", "abc")

	ok, err := client.SetNX(ctx, key, "first", time.Hour)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = client.SetNX(ctx, key, "second", time.Hour)
	require.NoError(t, err)
	require.False(t, ok)

	value, err := client.Get(ctx, key)
	require.NoError(t, err)
	require.Equal(t, "first", value)

	require.NoError(t, client.Del(ctx, key))
	_, err = client.Get(ctx, key)
	require.ErrorIs(t, err, redis.Nil)
}

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	require.Equal(t, "shopadmin:idempotency:scope:id", client.IdempotencyKey("scope", "id"))
	require.Equal(t, "shopadmin:rate_limit:scope", client.RateLimitKey("scope"))
}

func TestUninitializedClient(t *testing.T) {
	client := &Client{}
	require.Error(t, client.Ping(context.Background()))
	_, err := client.Get(context.Background(), "k")
	require.Error(t, err)
	require.NoError(t, client.Close())
}

func TestOptionsFromConfig(t *testing.T) {
	_, err := optionsFromConfig(config.RedisConfig{})
	require.Error(t, err)

	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:secret@localhost:6380/3", PoolSize: 7})
	require.NoError(t, err)
	require.Equal(t, "localhost:6380", opts.Addr)
	require.Equal(t, 3, opts.DB)
	require.Equal(t, 7, opts.PoolSize)

	opts, err = optionsFromConfig(config.RedisConfig{Address: "cache:6379", DB: 2, DialTimeout: time.Second})
	require.NoError(t, err)
	require.Equal(t, "cache:6379", opts.Addr)
	require.Equal(t, 2, opts.DB)
	require.Equal(t, time.Second, opts.DialTimeout)
}

func TestFixedWindowAllowUninitialized(t *testing.T) {
	client := &Client{}
	_, _, err := client.FixedWindowAllow(context.Background(), "writes:ip", 1, time.Minute)
	require.ErrorIs(t, err, errNotInitialized)
}

func TestNewPingsServer(t *testing.T) {
	server := miniredis.RunT(t)
	addr := server.Addr()
	client, err := New(context.Background(), config.RedisConfig{Address: addr}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(context.Background()))

	server.Close()
	_, err = New(context.Background(), config.RedisConfig{Address: addr, DialTimeout: 100 * time.Millisecond}, nil)
	require.Error(t, err)
}
