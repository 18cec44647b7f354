package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sanosuguru/go-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
)

var (
	// ErrSaturated は実行枠が埋まっていて受け付けなかったことを示す
	ErrSaturated = errors.New("ストア呼び出しの実行枠が上限に達しています")
	// ErrCallTimeout はストア呼び出しが制限時間内に完了しなかったことを示す
	ErrCallTimeout = errors.New("ストア呼び出しがタイムアウトしました")
	// ErrClosed は停止済みのExecutorに投入されたことを示す
	ErrClosed = errors.New("Executorは停止しています")
)

// Options はExecutorの設定
type Options struct {
	// MaxInFlight は同時実行できるストア呼び出しの上限
	MaxInFlight int
	// Timeout は1回のストア呼び出しに許す時間（枠の待ち時間を含む）
	Timeout time.Duration
	// RejectWhenFull が true の場合、枠が埋まっていれば待たずに ErrSaturated を返す
	RejectWhenFull bool
}

// Executor はストア呼び出しをリクエスト処理とは別のgoroutineで実行し、同時実行数を制限する
type Executor struct {
	sem            *semaphore.Weighted
	timeout        time.Duration
	rejectWhenFull bool
	metrics        *metrics.Metrics

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewExecutor は新しいExecutorを作成する
// m が nil の場合はメトリクスを記録しない
func NewExecutor(opts Options, m *metrics.Metrics) *Executor {
	if opts.MaxInFlight <= 0 {
		opts.MaxInFlight = 1
	}
	return &Executor{
		sem:            semaphore.NewWeighted(int64(opts.MaxInFlight)),
		timeout:        opts.Timeout,
		rejectWhenFull: opts.RejectWhenFull,
		metrics:        m,
	}
}

// Do は fn をワーカーgoroutineで実行し、その完了を待って結果を返す
// fn に渡すコンテキストには呼び出しごとのタイムアウトが設定される。
// Do が戻った時点で fn は必ず終了している。
func (e *Executor) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	e.mu.RLock()
	if e.closed {
		e.mu.RUnlock()
		return ErrClosed
	}
	e.wg.Add(1)
	e.mu.RUnlock()
	defer e.wg.Done()

	callCtx, cancel := e.callContext(ctx)
	defer cancel()

	if err := e.acquire(callCtx); err != nil {
		return err
	}
	defer e.sem.Release(1)

	e.trackInFlight(1)
	done := make(chan error, 1)
	go func() {
		defer e.trackInFlight(-1)
		done <- fn(callCtx)
	}()

	err := <-done
	if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrCallTimeout, err)
	}
	return err
}

// Close は新規受付を止め、実行中の呼び出しがすべて終わるまで待つ
func (e *Executor) Close(ctx context.Context) error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (e *Executor) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, e.timeout)
}

func (e *Executor) acquire(ctx context.Context) error {
	if e.rejectWhenFull {
		if !e.sem.TryAcquire(1) {
			if e.metrics != nil {
				e.metrics.ExecutorRejectedTotal.Inc()
			}
			logger.Warn("実行枠が上限に達したためストア呼び出しを拒否")
			return ErrSaturated
		}
		return nil
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			logger.Warn("実行枠の待機中にタイムアウト", zap.Duration("timeout", e.timeout))
			return fmt.Errorf("%w: %w", ErrCallTimeout, err)
		}
		return err
	}
	return nil
}

func (e *Executor) trackInFlight(delta float64) {
	if e.metrics != nil {
		e.metrics.ExecutorInFlight.Add(delta)
	}
}
