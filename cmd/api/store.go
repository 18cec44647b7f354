package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gocql/gocql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-reservation/internal/config"
	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/infrastructure/cassandra"
	"github.com/sanosuguru/go-seat-reservation/internal/infrastructure/memory"
	"github.com/sanosuguru/go-seat-reservation/internal/infrastructure/postgres"
	redisinfra "github.com/sanosuguru/go-seat-reservation/internal/infrastructure/redis"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/logger"
)

// openStore は設定されたドライバーのストアに接続する
// 返す関数は接続を閉じる
func openStore(ctx context.Context, cfg *config.Config, inventory seat.Inventory) (seat.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMemory:
		logger.Warn("インメモリストアを使用します（再起動で予約は失われます）")
		return memory.NewSeatStore(), func() {}, nil

	case config.StoreDriverRedis:
		client := redisinfra.NewClient(&cfg.Redis)
		store := redisinfra.NewSeatStore(client, cfg.Redis.KeyPrefix, inventory)
		if err := connectWithRetry(ctx, cfg.Store, "redis", store.Ping); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return store, func() { _ = client.Close() }, nil

	case config.StoreDriverPostgres:
		var db *sqlx.DB
		err := connectWithRetry(ctx, cfg.Store, "postgres", func(ctx context.Context) error {
			conn, err := postgres.NewConnection(&cfg.Database)
			if err != nil {
				return err
			}
			db = conn
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.RunMigrations(db.DB); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return postgres.NewSeatStore(db), func() { _ = db.Close() }, nil

	case config.StoreDriverCassandra:
		var session *gocql.Session
		err := connectWithRetry(ctx, cfg.Store, "cassandra", func(ctx context.Context) error {
			s, err := cassandra.NewSession(&cfg.Cassandra, cfg.Store.OperationTimeout)
			if err != nil {
				return err
			}
			session = s
			return nil
		})
		if err != nil {
			return nil, nil, err
		}
		store := cassandra.NewSeatStore(session)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("未対応のストアドライバーです: %q", cfg.Store.Driver)
	}
}

// connectWithRetry は接続確認を指定回数まで試みる
// 起動時のみ使い、座席操作の再試行には使わない
func connectWithRetry(ctx context.Context, cfg config.StoreConfig, driver string, connect func(ctx context.Context) error) error {
	attempts := cfg.ConnectAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		attemptCtx, cancel := attemptContext(ctx, cfg.OperationTimeout)
		err = connect(attemptCtx)
		cancel()
		if err == nil {
			logger.Info("ストアに接続しました", zap.String("driver", driver), zap.Int("attempt", attempt))
			return nil
		}

		logger.Warn("ストア接続に失敗しました",
			zap.String("driver", driver),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", attempts),
			zap.Error(err),
		)
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.ConnectBackoff):
		}
	}
	return fmt.Errorf("%sへの接続を%d回試みましたが失敗しました: %w", driver, attempts, err)
}

func attemptContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
