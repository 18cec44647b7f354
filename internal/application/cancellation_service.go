package application

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/logger"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
)

// CancellationStatus は一括キャンセルの集約結果
type CancellationStatus string

const (
	// StatusAllReleased はすべての座席を解放できたことを示す
	StatusAllReleased CancellationStatus = "all_released"
	// StatusPartialOrNotFound は保持されていない座席が含まれていたことを示す
	// 解放済みの座席は元に戻さない
	StatusPartialOrNotFound CancellationStatus = "partial_or_not_found"
	// StatusServiceError はストアを利用できなかった座席があったことを示す
	StatusServiceError CancellationStatus = "service_error"
)

// CancellationResult は一括キャンセルの結果
// 各リストは重複を除いた入力順に並ぶ
type CancellationResult struct {
	Status   CancellationStatus
	Released []int
	NotFound []int
	Failed   []int
}

// CancellationService は複数座席の解放を扱う
// 座席ごとに独立した条件付き削除を行い、座席間の原子性は持たない
type CancellationService struct {
	registry  *Registry
	executor  Executor
	publisher EventPublisher
	metrics   *metrics.Metrics
}

// NewCancellationService は新しいCancellationServiceを作成する
func NewCancellationService(registry *Registry, executor Executor, publisher EventPublisher, m *metrics.Metrics) *CancellationService {
	return &CancellationService{registry: registry, executor: executor, publisher: publisher, metrics: m}
}

// Cancel は指定された座席をすべて解放する
// 1件でも範囲外のIDがあればストアを呼ばずに全体を拒否する
func (s *CancellationService) Cancel(ctx context.Context, ids []int) (*CancellationResult, error) {
	unique, err := s.validate(ids)
	if err != nil {
		countOperation(s.metrics, opRelease, err)
		return nil, err
	}

	outcomes := make([]error, len(unique))
	var g errgroup.Group
	for i, id := range unique {
		g.Go(func() error {
			outcomes[i] = submit(ctx, s.executor, func(ctx context.Context) error {
				return s.registry.Release(ctx, id)
			})
			// 他の座席の解放を止めないため常に nil を返す
			return nil
		})
	}
	_ = g.Wait()

	result := &CancellationResult{}
	for i, id := range unique {
		err := outcomes[i]
		countOperation(s.metrics, opRelease, err)
		switch {
		case err == nil:
			result.Released = append(result.Released, id)
			publish(ctx, s.publisher, seat.NewChangedEvent(id, seat.ActionReleased, ""))
		case errors.Is(err, seat.ErrSeatNotHeld):
			result.NotFound = append(result.NotFound, id)
		default:
			logger.Error("座席の解放に失敗", zap.Int("seat_id", id), zap.Error(err))
			result.Failed = append(result.Failed, id)
		}
	}
	result.Status = aggregate(result)

	if s.metrics != nil {
		s.metrics.BatchCancellationsTotal.WithLabelValues(string(result.Status)).Inc()
	}
	return result, nil
}

func (s *CancellationService) validate(ids []int) ([]int, error) {
	if len(ids) == 0 {
		return nil, seat.ErrSeatIDsRequired
	}
	inventory := s.registry.Inventory()
	seen := make(map[int]struct{}, len(ids))
	unique := make([]int, 0, len(ids))
	for _, id := range ids {
		if err := inventory.ValidateID(id); err != nil {
			return nil, err
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique, nil
}

// aggregate は座席ごとの結果から集約結果を決める
// ストア障害と未保持が両方ある場合は ServiceError を優先する
func aggregate(r *CancellationResult) CancellationStatus {
	switch {
	case len(r.Failed) > 0:
		return StatusServiceError
	case len(r.NotFound) > 0:
		return StatusPartialOrNotFound
	default:
		return StatusAllReleased
	}
}
