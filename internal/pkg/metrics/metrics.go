package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics はアプリケーションのメトリクスを管理する
type Metrics struct {
	// HTTPリクエストの総数（method, path, status_code）
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPリクエストのレイテンシ（method, path）
	HTTPRequestDuration *prometheus.HistogramVec

	// 座席操作の総数（operation: book/transfer/release, outcome: applied/conflict/not_found/invalid_argument/unavailable）
	SeatOperationsTotal *prometheus.CounterVec

	// ストアへの条件付き書き込みの所要時間（operation, outcome）
	StoreOperationDuration *prometheus.HistogramVec

	// 一括キャンセルの集約結果（status: all_released/partial_or_not_found/service_error）
	BatchCancellationsTotal *prometheus.CounterVec

	// 実行中のストア呼び出し数
	ExecutorInFlight prometheus.Gauge

	// 受付上限超過で拒否したストア呼び出し数
	ExecutorRejectedTotal prometheus.Counter
}

// New は新しいMetricsインスタンスを作成し、デフォルトレジストリに登録する
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry は指定したレジストリにメトリクスを登録する
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		SeatOperationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_operations_total",
				Help: "Total number of seat operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		StoreOperationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "store_operation_duration_seconds",
				Help:    "Time spent on conditional store writes",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"operation", "outcome"},
		),
		BatchCancellationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_cancellations_total",
				Help: "Total number of batch cancellations by aggregate status",
			},
			[]string{"status"},
		),
		ExecutorInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "executor_in_flight",
				Help: "Current number of in-flight store calls",
			},
		),
		ExecutorRejectedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "executor_rejected_total",
				Help: "Total number of store calls rejected by admission limiting",
			},
		),
	}

	// レジストリに登録
	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.SeatOperationsTotal,
		m.StoreOperationDuration,
		m.BatchCancellationsTotal,
		m.ExecutorInFlight,
		m.ExecutorRejectedTotal,
	)

	return m
}

// デフォルトのメトリクスインスタンス
var defaultMetrics *Metrics

// Init はデフォルトのメトリクスインスタンスを初期化する
func Init() *Metrics {
	defaultMetrics = New()
	return defaultMetrics
}

// Get はデフォルトのメトリクスインスタンスを返す
func Get() *Metrics {
	return defaultMetrics
}
