package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

// 挿入できなかった場合は同じ文の中で現在の利用者を返す
// 並行挿入の直後は文のスナップショットに行が見えず、0行（利用者不明）になることがある
const createSeatQuery = `
WITH inserted AS (
	INSERT INTO seat_reservations (seat_id, occupant, updated_at)
	VALUES ($1, $2, NOW())
	ON CONFLICT (seat_id) DO NOTHING
	RETURNING occupant
)
SELECT TRUE AS applied, occupant FROM inserted
UNION ALL
SELECT FALSE AS applied, occupant FROM seat_reservations
WHERE seat_id = $1 AND NOT EXISTS (SELECT 1 FROM inserted)`

const (
	replaceSeatQuery = `UPDATE seat_reservations SET occupant = $2, updated_at = NOW() WHERE seat_id = $1`
	deleteSeatQuery  = `DELETE FROM seat_reservations WHERE seat_id = $1`
	listSeatsQuery   = `SELECT seat_id, occupant FROM seat_reservations ORDER BY seat_id`
)

type seatRow struct {
	SeatID   int    `db:"seat_id"`
	Occupant string `db:"occupant"`
}

type createRow struct {
	Applied  bool   `db:"applied"`
	Occupant string `db:"occupant"`
}

// SeatStore は行単位の条件付きDMLによる seat.Store 実装
// 主キー制約と行ロックにより座席ID単位で直列化される
type SeatStore struct{ db *sqlx.DB }

func NewSeatStore(db *sqlx.DB) *SeatStore { return &SeatStore{db: db} }

func (s *SeatStore) CreateIfAbsent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	var row createRow
	if err := s.db.GetContext(ctx, &row, createSeatQuery, id, occupant); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return seat.WriteResult{Applied: false}, nil
		}
		return seat.WriteResult{}, fmt.Errorf("座席予約の作成に失敗: %w", err)
	}
	if row.Applied {
		return seat.WriteResult{Applied: true}, nil
	}
	return seat.WriteResult{Applied: false, Current: row.Occupant}, nil
}

func (s *SeatStore) ReplaceIfPresent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	applied, err := s.execSingleRow(ctx, replaceSeatQuery, id, occupant)
	if err != nil {
		return seat.WriteResult{}, fmt.Errorf("座席予約の更新に失敗: %w", err)
	}
	return seat.WriteResult{Applied: applied}, nil
}

func (s *SeatStore) DeleteIfPresent(ctx context.Context, id int) (seat.WriteResult, error) {
	applied, err := s.execSingleRow(ctx, deleteSeatQuery, id)
	if err != nil {
		return seat.WriteResult{}, fmt.Errorf("座席予約の削除に失敗: %w", err)
	}
	return seat.WriteResult{Applied: applied}, nil
}

func (s *SeatStore) List(ctx context.Context) ([]*seat.Seat, error) {
	var rows []seatRow
	if err := s.db.SelectContext(ctx, &rows, listSeatsQuery); err != nil {
		return nil, fmt.Errorf("座席一覧の取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, len(rows))
	for i, row := range rows {
		seats[i] = &seat.Seat{ID: row.SeatID, Occupant: row.Occupant}
	}
	return seats, nil
}

func (s *SeatStore) Ping(ctx context.Context) error {
	return Ping(ctx, s.db)
}

func (s *SeatStore) execSingleRow(ctx context.Context, query string, args ...interface{}) (bool, error) {
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows == 1, nil
}

var _ seat.Store = (*SeatStore)(nil)
