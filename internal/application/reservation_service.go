package application

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
)

// 座席操作のラベル
const (
	opBook     = "book"
	opTransfer = "transfer"
	opRelease  = "release"
)

// ReservationService は単一座席の予約・譲渡と座席マップの取得を扱う
type ReservationService struct {
	registry  *Registry
	executor  Executor
	publisher EventPublisher
	metrics   *metrics.Metrics
}

// NewReservationService は新しいReservationServiceを作成する
// publisher と m は nil でもよい
func NewReservationService(registry *Registry, executor Executor, publisher EventPublisher, m *metrics.Metrics) *ReservationService {
	return &ReservationService{registry: registry, executor: executor, publisher: publisher, metrics: m}
}

// Book は座席を予約する
func (s *ReservationService) Book(ctx context.Context, id int, occupant string) (*seat.Seat, error) {
	// 不正な入力はストアに到達させない
	if err := s.registry.Inventory().Validate(id, occupant); err != nil {
		s.count(opBook, err)
		return nil, err
	}

	var booked *seat.Seat
	err := submit(ctx, s.executor, func(ctx context.Context) error {
		var err error
		booked, err = s.registry.Book(ctx, id, occupant)
		return err
	})
	s.count(opBook, err)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, seat.NewChangedEvent(id, seat.ActionBooked, occupant))
	return booked, nil
}

// Transfer は保持中の座席を別の利用者に譲渡する
func (s *ReservationService) Transfer(ctx context.Context, id int, occupant string) (*seat.Seat, error) {
	if err := s.registry.Inventory().Validate(id, occupant); err != nil {
		s.count(opTransfer, err)
		return nil, err
	}

	var updated *seat.Seat
	err := submit(ctx, s.executor, func(ctx context.Context) error {
		var err error
		updated, err = s.registry.Transfer(ctx, id, occupant)
		return err
	})
	s.count(opTransfer, err)
	if err != nil {
		return nil, err
	}

	publish(ctx, s.publisher, seat.NewChangedEvent(id, seat.ActionTransferred, occupant))
	return updated, nil
}

// List は範囲内の全座席の状態を返す
func (s *ReservationService) List(ctx context.Context) ([]seat.SeatState, error) {
	var states []seat.SeatState
	err := submit(ctx, s.executor, func(ctx context.Context) error {
		var err error
		states, err = s.registry.SeatMap(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return states, nil
}

// Ping はストアへの接続を確認する
func (s *ReservationService) Ping(ctx context.Context) error {
	return submit(ctx, s.executor, s.registry.Ping)
}

func (s *ReservationService) count(op string, err error) {
	countOperation(s.metrics, op, err)
}

func countOperation(m *metrics.Metrics, op string, err error) {
	if m == nil {
		return
	}
	m.SeatOperationsTotal.WithLabelValues(op, string(seat.Classify(err))).Inc()
}

// publish はイベントを配信する。失敗しても呼び出し元の結果は変えない
func publish(ctx context.Context, publisher EventPublisher, event seat.ChangedEvent) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn("座席変更イベントの配信に失敗",
			zap.Int("seat_id", event.SeatID),
			zap.String("action", string(event.Action)),
			zap.Error(err),
		)
	}
}
