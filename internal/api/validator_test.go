package api

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRequest struct {
	SeatID *int   `json:"seat_id" validate:"required"`
	User   string `json:"user" validate:"required"`
	IDs    []int  `json:"seat_id_tab" validate:"omitempty,min=1,max=3"`
}

func TestCustomValidator_Validate(t *testing.T) {
	v := NewValidator()
	id := 5

	t.Run("有効なリクエスト", func(t *testing.T) {
		assert.NoError(t, v.Validate(&testRequest{SeatID: &id, User: "alice"}))
	})

	t.Run("必須項目の欠落はJSON名で報告する", func(t *testing.T) {
		err := v.Validate(&testRequest{})

		require.Error(t, err)
		he, ok := err.(*echo.HTTPError)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, he.Code)
		assert.Contains(t, he.Message, "seat_idは必須です")
		assert.Contains(t, he.Message, "userは必須です")
	})

	t.Run("件数の上限", func(t *testing.T) {
		err := v.Validate(&testRequest{SeatID: &id, User: "alice", IDs: []int{1, 2, 3, 4}})

		require.Error(t, err)
		assert.Contains(t, err.(*echo.HTTPError).Message, "seat_id_tabは3件以下である必要があります")
	})
}
