package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/logger"
)

// ErrorResponse はエラーレスポンスの統一フォーマット
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    int    `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// StatusFromError はドメインエラーをHTTPステータスに対応付ける
// ストア障害は再試行可能であることを示すため 503 を返す
func StatusFromError(err error) int {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	switch seat.Classify(err) {
	case seat.OutcomeApplied:
		return http.StatusOK
	case seat.OutcomeInvalidArgument:
		return http.StatusBadRequest
	case seat.OutcomeConflict:
		return http.StatusConflict
	case seat.OutcomeNotFound:
		return http.StatusNotFound
	default:
		if errors.Is(err, seat.ErrStoreUnavailable) {
			return http.StatusServiceUnavailable
		}
		return http.StatusInternalServerError
	}
}

// NewErrorResponse はエラーからレスポンスを組み立てる
// 5xx の場合は内部の詳細を返さない
func NewErrorResponse(err error) ErrorResponse {
	code := StatusFromError(err)

	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		message, ok := he.Message.(string)
		if !ok {
			message = http.StatusText(code)
		}
		return ErrorResponse{Error: message, Code: code}
	case code == http.StatusServiceUnavailable:
		return ErrorResponse{Error: seat.ErrStoreUnavailable.Error(), Code: code}
	case code >= 500:
		return ErrorResponse{Error: "内部サーバーエラー", Code: code}
	default:
		return ErrorResponse{Error: err.Error(), Code: code}
	}
}

// CustomHTTPErrorHandler はカスタムエラーハンドラー
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	resp := NewErrorResponse(err)

	// エラーログを出力（5xx エラーの場合）
	if resp.Code >= 500 {
		logger.Error("サーバーエラー",
			zap.Int("status", resp.Code),
			zap.String("path", c.Request().URL.Path),
			zap.Error(err),
		)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(resp.Code)
	} else {
		err = c.JSON(resp.Code, resp)
	}
	if err != nil {
		logger.Error("エラーレスポンス送信失敗", zap.Error(err))
	}
}
