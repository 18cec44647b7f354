package middleware

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
)

// ルートに一致しなかったリクエストのパスラベル
const unmatchedRoute = "unmatched"

// PrometheusMiddleware はHTTPメトリクスを収集するミドルウェア
// パスラベルにはルート定義を使い、/metrics 自体は記録しない
func PrometheusMiddleware(m *metrics.Metrics, skipPaths ...string) echo.MiddlewareFunc {
	skip := make(map[string]struct{}, len(skipPaths))
	for _, p := range skipPaths {
		skip[p] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := skip[c.Request().URL.Path]; ok {
				return next(c)
			}

			start := time.Now()

			err := next(c)

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			path := c.Path()
			if path == "" {
				path = unmatchedRoute
			}

			method := c.Request().Method
			m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
			m.HTTPRequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
