// Package rabbitmq は座席の状態遷移イベントを RabbitMQ に配信する
package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

// Publisher は永続キューへイベントを配信する
// 接続とチャネルは起動時に1本だけ確立し、配信はミューテックスで直列化する
type Publisher struct {
	mu    sync.Mutex
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

// NewPublisher はブローカーに接続しキューを宣言する
func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("RabbitMQ接続に失敗しました: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("チャネル作成に失敗しました: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("キュー宣言に失敗しました: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

// Publish はイベントをJSONで配信する
func (p *Publisher) Publish(ctx context.Context, event seat.ChangedEvent) error {
	msg, err := newMessage(event)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("イベント配信に失敗しました: %w", err)
	}
	return nil
}

// Close はチャネルと接続を閉じる
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.ch.Close(); err != nil {
		_ = p.conn.Close()
		return err
	}
	return p.conn.Close()
}

func newMessage(event seat.ChangedEvent) (amqp.Publishing, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return amqp.Publishing{}, fmt.Errorf("イベントのシリアライズに失敗しました: %w", err)
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Type:         string(event.Action),
		Body:         body,
	}, nil
}
