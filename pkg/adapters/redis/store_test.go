package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/waterjug/pkg/adapters/redis"
	"github.com/aretw0/waterjug/pkg/domain"
	"github.com/aretw0/waterjug/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunSessionStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)
	ctx := context.Background()
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))

	require.NoError(t, store.Save(ctx, "s1", &domain.Playback{SessionID: "s1"}))
	assert.True(t, mr.Exists("test:s1"))
	assert.True(t, mr.Exists("test:index"))
}

func TestRedisStore_TTL(t *testing.T) {
	mr, client := setup(t)
	ctx := context.Background()
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))

	require.NoError(t, store.Save(ctx, "s1", &domain.Playback{SessionID: "s1"}))
	assert.Equal(t, time.Minute, mr.TTL(redis.DefaultPrefix+"s1"))

	mr.FastForward(2 * time.Minute)

	_, err := store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRedisStore_HealthCheck(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)

	var hc ports.HealthChecker = store
	require.NoError(t, hc.HealthCheck(context.Background()))

	mr.Close()
	assert.Error(t, hc.HealthCheck(context.Background()))
}

func TestRedisLocker(t *testing.T) {
	_, client := setup(t)
	ctx := context.Background()
	locker := redis.NewLocker(client, "test:")

	unlock, err := locker.Lock(ctx, "s1", time.Minute)
	require.NoError(t, err)

	// A second caller times out while the lock is held.
	short, cancel := context.WithTimeout(ctx, 150*time.Millisecond)
	defer cancel()
	_, err = locker.Lock(short, "s1", time.Minute)
	require.ErrorIs(t, err, redis.ErrLockAcquire)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock(ctx))

	unlock2, err := locker.Lock(ctx, "s1", time.Minute)
	require.NoError(t, err)
	require.NoError(t, unlock2(ctx))
}
