package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-reservation/internal/api/handler"
	"github.com/sanosuguru/go-seat-reservation/internal/application"
	"github.com/sanosuguru/go-seat-reservation/internal/config"
	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/infrastructure/rabbitmq"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-seat-reservation/internal/worker"
)

func main() {
	// .env があれば読み込む（本番では環境変数を直接設定する）
	_ = godotenv.Load()

	cfg := config.Load()

	log := logger.NewLoggerWithFile(cfg.Env, logger.FileOptions{
		Path:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.Set(log)
	defer func() { _ = logger.Sync() }()

	inventory, err := seat.NewInventory(cfg.Seats.FirstID, cfg.Seats.Count)
	if err != nil {
		logger.Fatal("座席範囲の設定が不正です", zap.Error(err))
	}

	m := metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ストアに接続できない場合は起動しない
	store, closeStore, err := openStore(ctx, cfg, inventory)
	if err != nil {
		logger.Fatal("ストア接続エラー", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer closeStore()

	var publisher application.EventPublisher
	if cfg.Events.AMQPURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.Events.AMQPURL, cfg.Events.Queue)
		if err != nil {
			logger.Warn("イベント配信を無効にして起動します", zap.Error(err))
		} else {
			defer func() { _ = p.Close() }()
			publisher = p
		}
	}

	executor := worker.NewExecutor(worker.Options{
		MaxInFlight:    cfg.Executor.MaxInFlight,
		Timeout:        cfg.Store.OperationTimeout,
		RejectWhenFull: cfg.Executor.RejectWhenFull,
	}, m)

	registry := application.NewRegistry(store, inventory, m)
	reservations := application.NewReservationService(registry, executor, publisher, m)
	cancellations := application.NewCancellationService(registry, executor, publisher, m)

	e := handler.NewRouter(handler.RouterConfig{
		Reservations:  reservations,
		Seats:         reservations,
		Cancellations: cancellations,
		Store:         reservations,
		Metrics:       m,
		MetricsAuth:   cfg.Metrics,
	})
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout

	// Graceful shutdown
	go func() {
		logger.Info("サーバーを起動します",
			zap.String("port", cfg.Server.Port),
			zap.String("store", cfg.Store.Driver),
			zap.Int("first_seat", inventory.First),
			zap.Int("last_seat", inventory.Last()),
		)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("サーバー起動エラー", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("サーバーをシャットダウンしています...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("サーバーシャットダウンエラー", zap.Error(err))
	}
	if err := executor.Close(shutdownCtx); err != nil {
		logger.Error("実行中のストア呼び出しの完了待ちがタイムアウトしました", zap.Error(err))
	}

	logger.Info("サーバーが正常にシャットダウンしました")
}
