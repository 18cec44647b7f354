package handler

import (
	"context"

	"github.com/sanosuguru/go-seat-reservation/internal/application"
	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

// ReservationServiceInterface は単一座席の予約サービスのインターフェース
type ReservationServiceInterface interface {
	Book(ctx context.Context, id int, occupant string) (*seat.Seat, error)
	Transfer(ctx context.Context, id int, occupant string) (*seat.Seat, error)
}

// SeatMapServiceInterface は座席マップ取得のインターフェース
type SeatMapServiceInterface interface {
	List(ctx context.Context) ([]seat.SeatState, error)
}

// CancellationServiceInterface は一括キャンセルサービスのインターフェース
type CancellationServiceInterface interface {
	Cancel(ctx context.Context, ids []int) (*application.CancellationResult, error)
}

// Pinger はストアの疎通確認のインターフェース
type Pinger interface {
	Ping(ctx context.Context) error
}
