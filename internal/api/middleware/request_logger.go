package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-reservation/internal/pkg/logger"
)

// RequestLogger はリクエストの構造化ログを出力するミドルウェア
func RequestLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			req := c.Request()
			res := c.Response()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = res.Header().Get(echo.HeaderXRequestID)
			}

			err := next(c)
			if err != nil {
				// ステータスを確定させるためエラーハンドラーを先に呼ぶ
				c.Error(err)
			}

			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
				zap.String("route", c.Path()),
				zap.Int("status", res.Status),
				zap.Int64("size", res.Size),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			}

			switch {
			case err != nil && res.Status >= 500:
				fields = append(fields, zap.Error(err))
				logger.Error("request failed", fields...)
			case res.Status >= 500:
				logger.Error("server error", fields...)
			case res.Status >= 400:
				if err != nil {
					fields = append(fields, zap.Error(err))
				}
				logger.Warn("client error", fields...)
			default:
				logger.Info("request completed", fields...)
			}

			return nil
		}
	}
}

// RequestIDMiddleware はリクエストIDを生成・付与するミドルウェア
// 受け取ったリクエストIDがあればそれを引き継ぐ
func RequestIDMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			res := c.Response()

			requestID := req.Header.Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = generateRequestID()
			}
			res.Header().Set(echo.HeaderXRequestID, requestID)

			return next(c)
		}
	}
}

func generateRequestID() string {
	return uuid.NewString()
}
