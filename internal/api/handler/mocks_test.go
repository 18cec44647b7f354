package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"

	"github.com/sanosuguru/go-seat-reservation/internal/application"
	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
)

// MockReservationService はReservationServiceInterfaceのモック
type MockReservationService struct {
	mock.Mock
}

func (m *MockReservationService) Book(ctx context.Context, id int, occupant string) (*seat.Seat, error) {
	args := m.Called(ctx, id, occupant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

func (m *MockReservationService) Transfer(ctx context.Context, id int, occupant string) (*seat.Seat, error) {
	args := m.Called(ctx, id, occupant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*seat.Seat), args.Error(1)
}

// MockSeatMapService はSeatMapServiceInterfaceのモック
type MockSeatMapService struct {
	mock.Mock
}

func (m *MockSeatMapService) List(ctx context.Context) ([]seat.SeatState, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]seat.SeatState), args.Error(1)
}

// MockCancellationService はCancellationServiceInterfaceのモック
type MockCancellationService struct {
	mock.Mock
}

func (m *MockCancellationService) Cancel(ctx context.Context, ids []int) (*application.CancellationResult, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*application.CancellationResult), args.Error(1)
}

// MockPinger はPingerのモック
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func newJSONContext(e *echo.Echo, method, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// httpStatus はハンドラーの戻り値から最終的なステータスコードを取り出す
func httpStatus(err error, rec *httptest.ResponseRecorder) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	if err != nil {
		return http.StatusInternalServerError
	}
	return rec.Code
}
