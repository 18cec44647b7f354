package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeatStore_CreateIfAbsent(t *testing.T) {
	store := NewSeatStore()
	ctx := context.Background()

	res, err := store.CreateIfAbsent(ctx, 5, "alice")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	res, err = store.CreateIfAbsent(ctx, 5, "bob")
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Equal(t, "alice", res.Current)
}

func TestSeatStore_ReplaceIfPresent(t *testing.T) {
	store := NewSeatStore()
	ctx := context.Background()

	res, err := store.ReplaceIfPresent(ctx, 5, "carol")
	require.NoError(t, err)
	assert.False(t, res.Applied, "空席は上書きできない")

	_, _ = store.CreateIfAbsent(ctx, 5, "alice")
	res, err = store.ReplaceIfPresent(ctx, 5, "carol")
	require.NoError(t, err)
	assert.True(t, res.Applied)

	seats, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, "carol", seats[0].Occupant)
}

func TestSeatStore_DeleteIfPresent(t *testing.T) {
	store := NewSeatStore()
	ctx := context.Background()

	_, _ = store.CreateIfAbsent(ctx, 5, "alice")

	res, err := store.DeleteIfPresent(ctx, 5)
	require.NoError(t, err)
	assert.True(t, res.Applied)

	res, err = store.DeleteIfPresent(ctx, 5)
	require.NoError(t, err)
	assert.False(t, res.Applied)
}

func TestSeatStore_List_SortedByID(t *testing.T) {
	store := NewSeatStore()
	ctx := context.Background()

	for _, id := range []int{9, 2, 5} {
		_, _ = store.CreateIfAbsent(ctx, id, "user")
	}

	seats, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, seats, 3)
	assert.Equal(t, 2, seats[0].ID)
	assert.Equal(t, 5, seats[1].ID)
	assert.Equal(t, 9, seats[2].ID)
}

func TestSeatStore_CancelledContext(t *testing.T) {
	store := NewSeatStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.CreateIfAbsent(ctx, 1, "alice")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Ping(ctx), context.Canceled)
}

func TestSeatStore_ConcurrentCreate(t *testing.T) {
	store := NewSeatStore()
	ctx := context.Background()

	const racers = 100
	var applied int32
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := store.CreateIfAbsent(ctx, 1, "user")
			if err == nil && res.Applied {
				atomic.AddInt32(&applied, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), applied)
}
