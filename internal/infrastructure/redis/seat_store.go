package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

// SeatStore は Redis の単一キー操作による seat.Store 実装
// 各操作は1コマンドで完結するため、キー単位の原子性は Redis のコマンド実行モデルで保証される
// SET NX GET を使用するため Redis 7.0 以上が必要
type SeatStore struct {
	client    *redis.Client
	prefix    string
	inventory seat.Inventory
}

// NewSeatStore は新しい SeatStore を作成する
func NewSeatStore(client *redis.Client, prefix string, inventory seat.Inventory) *SeatStore {
	return &SeatStore{client: client, prefix: prefix, inventory: inventory}
}

// CreateIfAbsent は SET NX GET で作成し、拒否時は既存の利用者を返す
func (s *SeatStore) CreateIfAbsent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	prev, err := s.client.SetArgs(ctx, s.key(id), occupant, redis.SetArgs{Mode: "NX", Get: true}).Result()
	if errors.Is(err, redis.Nil) {
		// キーが存在しなかった（書き込み成功）
		return seat.WriteResult{Applied: true}, nil
	}
	if err != nil {
		return seat.WriteResult{}, fmt.Errorf("座席予約の書き込みに失敗: %w", err)
	}
	return seat.WriteResult{Applied: false, Current: prev}, nil
}

// ReplaceIfPresent は SET XX で既存エントリのみ上書きする
func (s *SeatStore) ReplaceIfPresent(ctx context.Context, id int, occupant string) (seat.WriteResult, error) {
	ok, err := s.client.SetXX(ctx, s.key(id), occupant, 0).Result()
	if err != nil {
		return seat.WriteResult{}, fmt.Errorf("座席予約の更新に失敗: %w", err)
	}
	return seat.WriteResult{Applied: ok}, nil
}

// DeleteIfPresent は DEL の削除件数で適用有無を判定する
func (s *SeatStore) DeleteIfPresent(ctx context.Context, id int) (seat.WriteResult, error) {
	n, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return seat.WriteResult{}, fmt.Errorf("座席予約の削除に失敗: %w", err)
	}
	return seat.WriteResult{Applied: n == 1}, nil
}

// List は在庫範囲のキーを MGET で一括取得する
func (s *SeatStore) List(ctx context.Context) ([]*seat.Seat, error) {
	ids := s.inventory.IDs()
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("座席一覧の取得に失敗: %w", err)
	}
	seats := make([]*seat.Seat, 0, len(vals))
	for i, v := range vals {
		occupant, ok := v.(string)
		if !ok {
			continue
		}
		seats = append(seats, &seat.Seat{ID: ids[i], Occupant: occupant})
	}
	return seats, nil
}

func (s *SeatStore) Ping(ctx context.Context) error {
	return Ping(ctx, s.client)
}

func (s *SeatStore) key(id int) string {
	return s.prefix + ":seat:" + strconv.Itoa(id)
}

var _ seat.Store = (*SeatStore)(nil)
