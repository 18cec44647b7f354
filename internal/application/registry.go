package application

import (
	"context"
	"fmt"
	"time"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
)

// ストア操作のラベル
const (
	storeOpCreate  = "create_if_absent"
	storeOpReplace = "replace_if_present"
	storeOpDelete  = "delete_if_present"
	storeOpList    = "list"
)

// Registry は座席の状態遷移をストアの条件付き書き込みに対応付ける
// 状態は保持せず、すべての操作がストアへの1往復で完結する。再試行は行わない。
type Registry struct {
	store     seat.Store
	inventory seat.Inventory
	metrics   *metrics.Metrics
}

// NewRegistry は新しいRegistryを作成する
func NewRegistry(store seat.Store, inventory seat.Inventory, m *metrics.Metrics) *Registry {
	return &Registry{store: store, inventory: inventory, metrics: m}
}

// Inventory は有効な座席範囲を返す
func (r *Registry) Inventory() seat.Inventory {
	return r.inventory
}

// Book は空席を予約する
// 既に保持されている場合は *seat.ConflictError を返す
func (r *Registry) Book(ctx context.Context, id int, occupant string) (*seat.Seat, error) {
	if err := r.inventory.Validate(id, occupant); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := r.store.CreateIfAbsent(ctx, id, occupant)
	if err != nil {
		r.observe(storeOpCreate, seat.OutcomeUnavailable, start)
		return nil, unavailable(err)
	}
	if !res.Applied {
		r.observe(storeOpCreate, seat.OutcomeConflict, start)
		return nil, &seat.ConflictError{SeatID: id, Holder: res.Current}
	}
	r.observe(storeOpCreate, seat.OutcomeApplied, start)
	return &seat.Seat{ID: id, Occupant: occupant}, nil
}

// Transfer は保持中の座席の利用者を変更する
// 空席の場合は seat.ErrSeatNotHeld を返す
func (r *Registry) Transfer(ctx context.Context, id int, occupant string) (*seat.Seat, error) {
	if err := r.inventory.Validate(id, occupant); err != nil {
		return nil, err
	}

	start := time.Now()
	res, err := r.store.ReplaceIfPresent(ctx, id, occupant)
	if err != nil {
		r.observe(storeOpReplace, seat.OutcomeUnavailable, start)
		return nil, unavailable(err)
	}
	if !res.Applied {
		r.observe(storeOpReplace, seat.OutcomeNotFound, start)
		return nil, fmt.Errorf("座席%d: %w", id, seat.ErrSeatNotHeld)
	}
	r.observe(storeOpReplace, seat.OutcomeApplied, start)
	return &seat.Seat{ID: id, Occupant: occupant}, nil
}

// Release は保持中の座席を解放する
// 空席の場合は seat.ErrSeatNotHeld を返す
func (r *Registry) Release(ctx context.Context, id int) error {
	if err := r.inventory.ValidateID(id); err != nil {
		return err
	}

	start := time.Now()
	res, err := r.store.DeleteIfPresent(ctx, id)
	if err != nil {
		r.observe(storeOpDelete, seat.OutcomeUnavailable, start)
		return unavailable(err)
	}
	if !res.Applied {
		r.observe(storeOpDelete, seat.OutcomeNotFound, start)
		return fmt.Errorf("座席%d: %w", id, seat.ErrSeatNotHeld)
	}
	r.observe(storeOpDelete, seat.OutcomeApplied, start)
	return nil
}

// SeatMap は範囲内の全座席の状態を返す
func (r *Registry) SeatMap(ctx context.Context) ([]seat.SeatState, error) {
	start := time.Now()
	held, err := r.store.List(ctx)
	if err != nil {
		r.observe(storeOpList, seat.OutcomeUnavailable, start)
		return nil, unavailable(err)
	}
	r.observe(storeOpList, seat.OutcomeApplied, start)
	return r.inventory.BuildSeatMap(held), nil
}

// Ping はストアへの接続を確認する
func (r *Registry) Ping(ctx context.Context) error {
	if err := r.store.Ping(ctx); err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *Registry) observe(op string, outcome seat.Outcome, start time.Time) {
	if r.metrics == nil {
		return
	}
	r.metrics.StoreOperationDuration.WithLabelValues(op, string(outcome)).Observe(time.Since(start).Seconds())
}

func unavailable(err error) error {
	return fmt.Errorf("%w: %w", seat.ErrStoreUnavailable, err)
}
