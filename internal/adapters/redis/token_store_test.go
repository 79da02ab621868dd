package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dietiestates/estates-web/internal/ports"
	"github.com/dietiestates/estates-web/internal/testutil"
)

// setupTestRedis creates a Redis client for testing.
// Tests will be skipped if Redis is not available.
func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	return testutil.SetupTestRedis(t)
}

// offlineClient never connects; it is enough for input validation paths.
func offlineClient(t *testing.T) *redis.Client {
	t.Helper()
	c := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestTokenStore_SaveAndLoad(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStore(client)
	ctx := context.Background()

	err := store.Save(ctx, "client-1", "header.payload.sig", time.Now().Add(30*time.Minute))
	require.NoError(t, err)

	token, err := store.Load(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, "header.payload.sig", token)

	ttl := client.TTL(ctx, "token:client-1").Val()
	assert.Greater(t, ttl, 29*time.Minute)
}

func TestTokenStore_LoadMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStore(client)

	_, err := store.Load(context.Background(), "nobody")
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}

func TestTokenStore_Delete(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "client-del", "tok", time.Time{}))
	require.NoError(t, store.Delete(ctx, "client-del"))

	_, err := store.Load(ctx, "client-del")
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)

	// Deleting twice is fine.
	require.NoError(t, store.Delete(ctx, "client-del"))
}

func TestTokenStore_TTLExpiration(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "client-ttl", "tok", time.Now().Add(100*time.Millisecond)))

	time.Sleep(200 * time.Millisecond)

	_, err := store.Load(ctx, "client-ttl")
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)
}

func TestTokenStore_CustomPrefix(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewTokenStoreWithPrefix(client, "test-prefix:")
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "prefix-test", "tok", time.Now().Add(time.Minute)))

	exists := client.Exists(ctx, "test-prefix:prefix-test").Val()
	assert.Equal(t, int64(1), exists)
}

func TestTokenStore_Validation(t *testing.T) {
	store := NewTokenStore(offlineClient(t))
	ctx := context.Background()

	err := store.Save(ctx, "", "tok", time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client ID cannot be empty")

	err = store.Save(ctx, "c", "", time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token cannot be empty")

	err = store.Save(ctx, "c", "tok", time.Now().Add(-time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "token is expired")

	_, err = store.Load(ctx, "")
	assert.ErrorIs(t, err, ports.ErrTokenNotFound)

	assert.NoError(t, store.Delete(ctx, ""))
}
