package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-reservation/internal/api"
)

// toHTTPError はサービスのエラーをステータス付きのHTTPエラーに変換する
func toHTTPError(err error) error {
	resp := api.NewErrorResponse(err)
	return echo.NewHTTPError(resp.Code, resp.Error).SetInternal(err)
}
