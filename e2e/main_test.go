package e2e

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/sanosuguru/go-seat-reservation/internal/api/handler"
	"github.com/sanosuguru/go-seat-reservation/internal/application"
	"github.com/sanosuguru/go-seat-reservation/internal/config"
	"github.com/sanosuguru/go-seat-reservation/internal/domain/seat"
	"github.com/sanosuguru/go-seat-reservation/internal/infrastructure/memory"
	"github.com/sanosuguru/go-seat-reservation/internal/pkg/metrics"
	"github.com/sanosuguru/go-seat-reservation/internal/worker"
)

// TestServer はE2Eテスト用のHTTPサーバー
type TestServer struct {
	*httptest.Server
	Registry *prometheus.Registry
}

// newTestServer はインメモリストアでアプリケーション全体を組み立てたサーバーを起動する
// 座席範囲は本番と同じ [1,108]
func newTestServer(t *testing.T) *TestServer {
	t.Helper()

	inventory, err := seat.NewInventory(1, 108)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(reg)

	executor := worker.NewExecutor(worker.Options{MaxInFlight: 32, Timeout: 2 * time.Second}, m)
	registry := application.NewRegistry(memory.NewSeatStore(), inventory, m)
	reservations := application.NewReservationService(registry, executor, nil, m)
	cancellations := application.NewCancellationService(registry, executor, nil, m)

	e := handler.NewRouter(handler.RouterConfig{
		Reservations:  reservations,
		Seats:         reservations,
		Cancellations: cancellations,
		Store:         reservations,
		Metrics:       m,
		Gatherer:      reg,
		MetricsAuth:   config.MetricsConfig{},
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return &TestServer{Server: srv, Registry: reg}
}

// doJSON はJSONリクエストを送信し、ステータスコードとデコード済みボディを返す
func (s *TestServer) doJSON(t *testing.T, method, path string, body interface{}, out interface{}) int {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, s.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

type bookBody struct {
	SeatID int    `json:"seat_id"`
	User   string `json:"user"`
}

type cancelBody struct {
	SeatIDTab []int `json:"seat_id_tab"`
}
