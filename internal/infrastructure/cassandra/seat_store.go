package cassandra

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

const (
	insertSeatCQL = `INSERT INTO reservation (seat_id, user) VALUES (?, ?) IF NOT EXISTS`
	updateSeatCQL = `UPDATE reservation SET user = ? WHERE seat_id = ? IF EXISTS`
	deleteSeatCQL = `DELETE FROM reservation WHERE seat_id = ? IF EXISTS`
	listSeatsCQL  = `SELECT seat_id, user FROM reservation`
	pingCQL       = `SELECT release_version FROM system.local`
)

// SeatStore は Paxos ベースの LWT による seat.Store 実装
type SeatStore struct {
	session *gocql.Session
}

func NewSeatStore(session *gocql.Session) *SeatStore {
	return &SeatStore{session: session}
}

func (s *SeatStore) CreateIfAbsent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	existing := map[string]interface{}{}
	applied, err := s.session.Query(insertSeatCQL, id, occupant).WithContext(ctx).MapScanCAS(existing)
	if err != nil {
		return seat.WriteResult{}, fmt.Errorf("座席予約の作成に失敗: %w", err)
	}
	if applied {
		return seat.WriteResult{Applied: true}, nil
	}
	current, _ := existing["user"].(string)
	return seat.WriteResult{Applied: false, Current: current}, nil
}

func (s *SeatStore) ReplaceIfPresent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	applied, err := s.session.Query(updateSeatCQL, occupant, id).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return seat.WriteResult{}, fmt.Errorf("座席予約の更新に失敗: %w", err)
	}
	return seat.WriteResult{Applied: applied}, nil
}

func (s *SeatStore) DeleteIfPresent(ctx context.Context, id int) (seat.WriteResult, error) {
	applied, err := s.session.Query(deleteSeatCQL, id).WithContext(ctx).MapScanCAS(map[string]interface{}{})
	if err != nil {
		return seat.WriteResult{}, fmt.Errorf("座席予約の削除に失敗: %w", err)
	}
	return seat.WriteResult{Applied: applied}, nil
}

func (s *SeatStore) List(ctx context.Context) ([]*seat.Seat, error) {
	iter := s.session.Query(listSeatsCQL).WithContext(ctx).Iter()
	var (
		seats    []*seat.Seat
		id       int
		occupant string
	)
	for iter.Scan(&id, &occupant) {
		seats = append(seats, &seat.Seat{ID: id, Occupant: occupant})
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("座席一覧の取得に失敗: %w", err)
	}
	return seats, nil
}

func (s *SeatStore) Ping(ctx context.Context) error {
	if err := s.session.Query(pingCQL).WithContext(ctx).Exec(); err != nil {
		return fmt.Errorf("Cassandra接続に失敗しました: %w", err)
	}
	return nil
}

func (s *SeatStore) Close() {
	s.session.Close()
}

var _ seat.Store = (*SeatStore)(nil)
