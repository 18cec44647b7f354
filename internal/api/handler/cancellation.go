package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-reservation/internal/application"
)

type CancellationHandler struct {
	service CancellationServiceInterface
}

func NewCancellationHandler(s CancellationServiceInterface) *CancellationHandler {
	return &CancellationHandler{service: s}
}

type CancelRequest struct {
	SeatIDTab []int `json:"seat_id_tab" validate:"required,min=1" example:"5,12"`
}

// CancelResponse は一括キャンセルの結果
// status が all_released 以外でも released の座席は解放済みのまま
type CancelResponse struct {
	Status   string `json:"status" example:"partial_or_not_found"`
	Released []int  `json:"released"`
	NotFound []int  `json:"not_found"`
	Failed   []int  `json:"failed,omitempty"`
}

func toCancelResponse(r *application.CancellationResult) CancelResponse {
	resp := CancelResponse{
		Status:   string(r.Status),
		Released: r.Released,
		NotFound: r.NotFound,
		Failed:   r.Failed,
	}
	if resp.Released == nil {
		resp.Released = []int{}
	}
	if resp.NotFound == nil {
		resp.NotFound = []int{}
	}
	return resp
}

func cancelStatusCode(status application.CancellationStatus) int {
	switch status {
	case application.StatusAllReleased:
		return http.StatusOK
	case application.StatusPartialOrNotFound:
		return http.StatusNotFound
	default:
		return http.StatusServiceUnavailable
	}
}

// Cancel godoc
// @Summary 座席を一括キャンセル
// @Description 指定した座席をすべて解放します。座席間の原子性はなく、一部のみ解放される場合があります
// @Tags seats
// @Accept json
// @Produce json
// @Param request body CancelRequest true "解放する座席ID"
// @Success 200 {object} CancelResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} CancelResponse "予約されていない座席を含む"
// @Failure 503 {object} CancelResponse
// @Router /cancel [post]
func (h *CancellationHandler) Cancel(c echo.Context) error {
	var req CancelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}
	result, err := h.service.Cancel(c.Request().Context(), req.SeatIDTab)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(cancelStatusCode(result.Status), toCancelResponse(result))
}
