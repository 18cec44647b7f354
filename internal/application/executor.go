package application

import (
	"context"
	"errors"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

// Executor はストア呼び出しを実行するワーカープールのインターフェース
type Executor interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher は座席変更イベントの配信先のインターフェース
type EventPublisher interface {
	Publish(ctx context.Context, event seat.ChangedEvent) error
}

// submit は fn を Executor 経由で実行する
// 業務結果以外のエラー（受付拒否・タイムアウトなど）は seat.ErrStoreUnavailable として返す
func submit(ctx context.Context, executor Executor, fn func(ctx context.Context) error) error {
	err := executor.Do(ctx, fn)
	if err == nil || seat.IsBusinessOutcome(err) || errors.Is(err, seat.ErrStoreUnavailable) {
		return err
	}
	return unavailable(err)
}
