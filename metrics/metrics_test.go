package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/metrics"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestHealthHandler(t *testing.T) {
	rec := httptest.NewRecorder()
	healthHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "OK", rec.Body.String())
}

func TestHandlerCombinesRegistries(t *testing.T) {
	reg := prom.NewRegistry()
	trades := prom.NewCounter(prom.CounterOpts{Name: "test_trades_total", Help: "test"})
	reg.MustRegister(trades)
	trades.Add(3)

	gethReg := metrics.NewRegistry()
	metrics.NewRegisteredGauge("test/rpc/inflight", gethReg).Update(2)

	server := httptest.NewServer(Handler(reg, gethReg))
	defer server.Close()

	resp, err := http.Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	require.Contains(t, string(body), "test_trades_total 3")
	require.Contains(t, string(body), "test_rpc_inflight")
}

func TestHandlerWithoutGethRegistry(t *testing.T) {
	reg := prom.NewRegistry()
	reg.MustRegister(prom.NewGauge(prom.GaugeOpts{Name: "test_up", Help: "test"}))

	rec := httptest.NewRecorder()
	Handler(reg, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Contains(t, rec.Body.String(), "test_up 0")
}
