package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T, ttl time.Duration) (*Store, *miniredis.Miniredis, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cleanup := func() {
		client.Close()
		mr.Close()
	}

	return NewStore(client, ttl), mr, cleanup
}

type detailStub struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	CurrentSum float64 `json:"current_sum"`
}

func TestStore_SetAndGet(t *testing.T) {
	store, _, cleanup := setupStore(t, time.Minute)
	defer cleanup()

	ctx := context.Background()
	value := &detailStub{ID: 42, Name: "birthday collect", CurrentSum: 150.5}

	err := store.SetCollectDetail(ctx, 42, value)
	require.NoError(t, err)

	var got detailStub
	err = store.GetCollectDetail(ctx, 42, &got)
	require.NoError(t, err)
	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, "birthday collect", got.Name)
	assert.Equal(t, 150.5, got.CurrentSum)
}

func TestStore_GetMiss(t *testing.T) {
	store, _, cleanup := setupStore(t, time.Minute)
	defer cleanup()

	var got detailStub
	err := store.GetCollectDetail(context.Background(), 999, &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStore_Invalidate(t *testing.T) {
	store, _, cleanup := setupStore(t, time.Minute)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.SetCollectDetail(ctx, 7, &detailStub{ID: 7}))

	err := store.InvalidateCollectDetail(ctx, 7)
	require.NoError(t, err)

	var got detailStub
	err = store.GetCollectDetail(ctx, 7, &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStore_InvalidateMissingKey(t *testing.T) {
	store, _, cleanup := setupStore(t, time.Minute)
	defer cleanup()

	// Deleting a key that was never set is not an error
	err := store.InvalidateCollectDetail(context.Background(), 12345)
	assert.NoError(t, err)
}

func TestStore_TTL(t *testing.T) {
	store, mr, cleanup := setupStore(t, 5*time.Minute)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.SetCollectDetail(ctx, 1, &detailStub{ID: 1}))

	// Entry expires after the configured TTL
	mr.FastForward(5*time.Minute + time.Second)

	var got detailStub
	err := store.GetCollectDetail(ctx, 1, &got)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store, _, cleanup := setupStore(t, time.Minute)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.SetCollectDetail(ctx, 1, &detailStub{ID: 1}))
	require.NoError(t, store.SetCollectDetail(ctx, 2, &detailStub{ID: 2}))

	require.NoError(t, store.InvalidateCollectDetail(ctx, 1))

	var got detailStub
	err := store.GetCollectDetail(ctx, 2, &got)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.ID)
}
