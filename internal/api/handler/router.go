package handler

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanosuguru/go-seat-reservation/internal/api"
	"github.com/sanosuguru/go-seat-reservation/internal/api/middleware"
	"github.com/sanosuguru/go-seat-reservation/internal/config"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
)

const metricsPath = "/metrics"

// RouterConfig はルーター構築に必要な依存関係
type RouterConfig struct {
	Reservations  ReservationServiceInterface
	Seats         SeatMapServiceInterface
	Cancellations CancellationServiceInterface
	Store         Pinger

	// Metrics が nil の場合は /metrics を公開しない
	Metrics     *metrics.Metrics
	Gatherer    prometheus.Gatherer
	MetricsAuth config.MetricsConfig
}

// NewRouter はミドルウェアとルートを設定したEchoインスタンスを返す
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = api.NewValidator()
	e.HTTPErrorHandler = api.CustomHTTPErrorHandler

	middleware.SetupMiddleware(e)

	if cfg.Metrics != nil {
		e.Use(middleware.PrometheusMiddleware(cfg.Metrics, metricsPath))

		gatherer := cfg.Gatherer
		if gatherer == nil {
			gatherer = prometheus.DefaultGatherer
		}
		e.GET(metricsPath,
			echo.WrapHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})),
			middleware.MetricsBasicAuth(cfg.MetricsAuth),
		)
	}

	reservationHandler := NewReservationHandler(cfg.Reservations)
	seatHandler := NewSeatHandler(cfg.Seats)
	cancellationHandler := NewCancellationHandler(cfg.Cancellations)
	healthHandler := NewHealthHandler(cfg.Store)

	e.GET("/health", healthHandler.Check)

	v1 := e.Group("/api/v1")
	v1.POST("/book", reservationHandler.Book)
	v1.PUT("/book", reservationHandler.Transfer)
	v1.POST("/cancel", cancellationHandler.Cancel)
	v1.GET("/seats", seatHandler.List)

	return e
}
