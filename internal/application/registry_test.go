package application

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
)

func TestRegistry_Book(t *testing.T) {
	ctx := context.Background()

	t.Run("空席なら予約できる", func(t *testing.T) {
		store := new(MockSeatStore)
		store.On("CreateIfAbsent", ctx, 5, "alice").Return(seat.WriteResult{Applied: true}, nil)
		r := NewRegistry(store, testInventory, nil)

		s, err := r.Book(ctx, 5, "alice")

		require.NoError(t, err)
		assert.Equal(t, &seat.Seat{ID: 5, Occupant: "alice"}, s)
		store.AssertExpectations(t)
	})

	t.Run("保持中なら競合を返し保持者を伝える", func(t *testing.T) {
		store := new(MockSeatStore)
		store.On("CreateIfAbsent", ctx, 5, "bob").Return(seat.WriteResult{Applied: false, Current: "alice"}, nil)
		r := NewRegistry(store, testInventory, nil)

		s, err := r.Book(ctx, 5, "bob")

		assert.Nil(t, s)
		assert.ErrorIs(t, err, seat.ErrSeatAlreadyHeld)
		var conflict *seat.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, 5, conflict.SeatID)
		assert.Equal(t, "alice", conflict.Holder)
	})

	t.Run("ストア障害はUnavailableとして返す", func(t *testing.T) {
		store := new(MockSeatStore)
		cause := errors.New("connection refused")
		store.On("CreateIfAbsent", ctx, 5, "alice").Return(seat.WriteResult{}, cause)
		r := NewRegistry(store, testInventory, nil)

		_, err := r.Book(ctx, 5, "alice")

		assert.ErrorIs(t, err, seat.ErrStoreUnavailable)
		assert.ErrorIs(t, err, cause)
		assert.NotErrorIs(t, err, seat.ErrSeatAlreadyHeld)
	})

	t.Run("範囲外のIDはストアを呼ばない", func(t *testing.T) {
		for _, id := range []int{0, 109, -1} {
			store := new(MockSeatStore)
			r := NewRegistry(store, testInventory, nil)

			_, err := r.Book(ctx, id, "a")

			assert.ErrorIs(t, err, seat.ErrInvalidArgument)
			store.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything, mock.Anything)
		}
	})

	t.Run("利用者が空ならストアを呼ばない", func(t *testing.T) {
		store := new(MockSeatStore)
		r := NewRegistry(store, testInventory, nil)

		_, err := r.Book(ctx, 5, "  ")

		assert.ErrorIs(t, err, seat.ErrOccupantRequired)
		store.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRegistry_Transfer(t *testing.T) {
	ctx := context.Background()

	t.Run("保持中なら譲渡できる", func(t *testing.T) {
		store := new(MockSeatStore)
		store.On("ReplaceIfPresent", ctx, 5, "carol").Return(seat.WriteResult{Applied: true}, nil)
		r := NewRegistry(store, testInventory, nil)

		s, err := r.Transfer(ctx, 5, "carol")

		require.NoError(t, err)
		assert.Equal(t, "carol", s.Occupant)
	})

	t.Run("空席の譲渡は成功しない", func(t *testing.T) {
		store := new(MockSeatStore)
		store.On("ReplaceIfPresent", ctx, 7, "carol").Return(seat.WriteResult{Applied: false}, nil)
		r := NewRegistry(store, testInventory, nil)

		s, err := r.Transfer(ctx, 7, "carol")

		assert.Nil(t, s)
		assert.ErrorIs(t, err, seat.ErrSeatNotHeld)
	})
}

func TestRegistry_Release(t *testing.T) {
	ctx := context.Background()

	t.Run("保持中なら解放できる", func(t *testing.T) {
		store := new(MockSeatStore)
		store.On("DeleteIfPresent", ctx, 5).Return(seat.WriteResult{Applied: true}, nil)
		r := NewRegistry(store, testInventory, nil)

		assert.NoError(t, r.Release(ctx, 5))
	})

	t.Run("空席の解放はNotFound", func(t *testing.T) {
		store := new(MockSeatStore)
		store.On("DeleteIfPresent", ctx, 5).Return(seat.WriteResult{Applied: false}, nil)
		r := NewRegistry(store, testInventory, nil)

		err := r.Release(ctx, 5)

		assert.ErrorIs(t, err, seat.ErrSeatNotHeld)
		assert.Equal(t, seat.OutcomeNotFound, seat.Classify(err))
	})
}

func TestRegistry_SeatMap(t *testing.T) {
	ctx := context.Background()
	store := new(MockSeatStore)
	store.On("List", ctx).Return([]*seat.Seat{{ID: 2, Occupant: "bob"}}, nil)
	r := NewRegistry(store, seat.Inventory{First: 1, Count: 3}, nil)

	states, err := r.SeatMap(ctx)

	require.NoError(t, err)
	assert.Equal(t, []seat.SeatState{
		{ID: 1},
		{ID: 2, Occupant: "bob", Held: true},
		{ID: 3},
	}, states)
}

func TestRegistry_ObservesStoreDuration(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)
	store := new(MockSeatStore)
	store.On("CreateIfAbsent", ctx, 1, "alice").Return(seat.WriteResult{Applied: true}, nil).Once()
	store.On("CreateIfAbsent", ctx, 1, "bob").Return(seat.WriteResult{Applied: false}, nil).Once()
	r := NewRegistry(store, testInventory, m)

	_, _ = r.Book(ctx, 1, "alice")
	_, _ = r.Book(ctx, 1, "bob")

	assert.Equal(t, 2, testutil.CollectAndCount(m.StoreOperationDuration))
}
