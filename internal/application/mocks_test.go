package application

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/worker"
)

// === Mock implementations ===

// MockSeatStore implements seat.Store
type MockSeatStore struct {
	mock.Mock
}

func (m *MockSeatStore) CreateIfAbsent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	args := m.Called(ctx, id, occupant)
	return args.Get(0).(seat.WriteResult), args.Error(1)
}

func (m *MockSeatStore) ReplaceIfPresent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	args := m.Called(ctx, id, occupant)
	return args.Get(0).(seat.WriteResult), args.Error(1)
}

func (m *MockSeatStore) DeleteIfPresent(ctx context.Context, id int) (seat.WriteResult, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(seat.WriteResult), args.Error(1)
}

func (m *MockSeatStore) List(ctx context.Context) ([]*seat.Seat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*seat.Seat), args.Error(1)
}

func (m *MockSeatStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// recordingPublisher は配信されたイベントを記録する
type recordingPublisher struct {
	mu     sync.Mutex
	events []seat.ChangedEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, event seat.ChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) Events() []seat.ChangedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]seat.ChangedEvent(nil), p.events...)
}

// rejectingExecutor は常に受付を拒否する
type rejectingExecutor struct{}

func (rejectingExecutor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return worker.ErrSaturated
}

var testInventory = seat.Inventory{First: 1, Count: 108}

func newTestExecutor() *worker.Executor {
	return worker.NewExecutor(worker.Options{MaxInFlight: 16, Timeout: time.Second}, nil)
}
