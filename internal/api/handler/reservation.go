package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

type ReservationHandler struct {
	service ReservationServiceInterface
}

func NewReservationHandler(s ReservationServiceInterface) *ReservationHandler {
	return &ReservationHandler{service: s}
}

// BookRequest は予約・譲渡のリクエスト
// seat_id の範囲はサービス側で検証する
type BookRequest struct {
	SeatID *int   `json:"seat_id" validate:"required" example:"5"`
	User   string `json:"user" validate:"required" example:"alice"`
}

type SeatResponse struct {
	SeatID int    `json:"seat_id" example:"5"`
	User   string `json:"user" example:"alice"`
}

func toSeatResponse(s *seat.Seat) SeatResponse {
	return SeatResponse{SeatID: s.ID, User: s.Occupant}
}

// Book godoc
// @Summary 座席を予約
// @Description 空席を予約します。既に予約済みの場合は 409 を返します
// @Tags seats
// @Accept json
// @Produce json
// @Param request body BookRequest true "予約情報"
// @Success 201 {object} SeatResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 409 {object} api.ErrorResponse "座席が既に予約済み"
// @Failure 503 {object} api.ErrorResponse
// @Router /book [post]
func (h *ReservationHandler) Book(c echo.Context) error {
	req, err := bindBookRequest(c)
	if err != nil {
		return err
	}
	s, err := h.service.Book(c.Request().Context(), *req.SeatID, req.User)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusCreated, toSeatResponse(s))
}

// Transfer godoc
// @Summary 座席を譲渡
// @Description 予約済みの座席の利用者を変更します。空席の場合は 404 を返します
// @Tags seats
// @Accept json
// @Produce json
// @Param request body BookRequest true "譲渡先"
// @Success 200 {object} SeatResponse
// @Failure 400 {object} api.ErrorResponse
// @Failure 404 {object} api.ErrorResponse "座席が予約されていない"
// @Failure 503 {object} api.ErrorResponse
// @Router /book [put]
func (h *ReservationHandler) Transfer(c echo.Context) error {
	req, err := bindBookRequest(c)
	if err != nil {
		return err
	}
	s, err := h.service.Transfer(c.Request().Context(), *req.SeatID, req.User)
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSeatResponse(s))
}

func bindBookRequest(c echo.Context) (*BookRequest, error) {
	var req BookRequest
	if err := c.Bind(&req); err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "無効なリクエスト")
	}
	if err := c.Validate(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
