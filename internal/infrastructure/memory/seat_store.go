// Package memory はプロセス内で動作する条件付き書き込みストアを提供する
// テストとローカル開発用。複数プロセス間では状態を共有しない
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

// SeatStore は map とミューテックスによる seat.Store 実装
type SeatStore struct {
	mu    sync.Mutex
	seats map[int]string
}

// NewSeatStore は空の SeatStore を作成する
func NewSeatStore() *SeatStore {
	return &SeatStore{seats: make(map[int]string)}
}

func (s *SeatStore) CreateIfAbsent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return seat.WriteResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if current, ok := s.seats[id]; ok {
		return seat.WriteResult{Applied: false, Current: current}, nil
	}
	s.seats[id] = occupant
	return seat.WriteResult{Applied: true}, nil
}

func (s *SeatStore) ReplaceIfPresent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return seat.WriteResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seats[id]; !ok {
		return seat.WriteResult{Applied: false}, nil
	}
	s.seats[id] = occupant
	return seat.WriteResult{Applied: true}, nil
}

func (s *SeatStore) DeleteIfPresent(ctx context.Context, id int) (seat.WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return seat.WriteResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seats[id]; !ok {
		return seat.WriteResult{Applied: false}, nil
	}
	delete(s.seats, id)
	return seat.WriteResult{Applied: true}, nil
}

func (s *SeatStore) List(ctx context.Context) ([]*seat.Seat, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	seats := make([]*seat.Seat, 0, len(s.seats))
	for id, occupant := range s.seats {
		seats = append(seats, &seat.Seat{ID: id, Occupant: occupant})
	}
	sort.Slice(seats, func(i, j int) bool { return seats[i].ID < seats[j].ID })
	return seats, nil
}

func (s *SeatStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

var _ seat.Store = (*SeatStore)(nil)
