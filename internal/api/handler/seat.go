package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

// 座席の表示状態
const (
	seatStatusFree = "free"
	seatStatusHeld = "held"
)

type SeatHandler struct {
	service SeatMapServiceInterface
}

func NewSeatHandler(s SeatMapServiceInterface) *SeatHandler {
	return &SeatHandler{service: s}
}

type SeatStateResponse struct {
	SeatID int    `json:"seat_id"`
	Status string `json:"status"`
	User   string `json:"user,omitempty"`
}

type SeatMapResponse struct {
	Seats []SeatStateResponse `json:"seats"`
	Free  int                 `json:"free"`
	Held  int                 `json:"held"`
}

func toSeatMapResponse(states []seat.SeatState) SeatMapResponse {
	resp := SeatMapResponse{Seats: make([]SeatStateResponse, len(states))}
	for i, s := range states {
		status := seatStatusFree
		if s.Held {
			status = seatStatusHeld
			resp.Held++
		} else {
			resp.Free++
		}
		resp.Seats[i] = SeatStateResponse{SeatID: s.ID, Status: status, User: s.Occupant}
	}
	return resp
}

// List godoc
// @Summary 座席マップを取得
// @Description 全座席の空席・予約状況を返します
// @Tags seats
// @Produce json
// @Success 200 {object} SeatMapResponse
// @Failure 503 {object} api.ErrorResponse
// @Router /seats [get]
func (h *SeatHandler) List(c echo.Context) error {
	states, err := h.service.List(c.Request().Context())
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, toSeatMapResponse(states))
}
