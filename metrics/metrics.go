package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/metrics"
	gethprom "github.com/ethereum/go-ethereum/metrics/prometheus"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/status-im/nft-market/common"
	"github.com/status-im/nft-market/logutils"
)

// Server exposes /metrics and /health over HTTP.
type Server struct {
	server *http.Server
	logger *zap.Logger
}

// NewMetricsServer serves the default prometheus gatherer together with the
// go-ethereum registry r, which carries the rpc client metrics.
func NewMetricsServer(port int, r metrics.Registry) *Server {
	mux := http.NewServeMux()
	mux.Handle("/health", healthHandler())
	mux.Handle("/metrics", Handler(prom.DefaultGatherer, r))
	return &Server{
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			ReadHeaderTimeout: 5 * time.Second,
			Handler:           mux,
		},
		logger: logutils.ZapLogger().Named("Metrics"),
	}
}

func healthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, err := w.Write([]byte("OK"))
		if err != nil {
			logutils.ZapLogger().Error("health handler error", zap.Error(err))
		}
	})
}

// Handler writes both registries in the text exposition format.
func Handler(gatherer prom.Gatherer, reg metrics.Registry) http.Handler {
	// geth's handler doesn't compress, so neither may ours
	opts := promhttp.HandlerOpts{DisableCompression: true}
	marketMetrics := promhttp.HandlerFor(gatherer, opts)
	if reg == nil {
		return marketMetrics
	}
	gethMetrics := gethprom.Handler(reg)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		marketMetrics.ServeHTTP(w, r)
		gethMetrics.ServeHTTP(w, r)
	})
}

// Listen serves until Stop is called. Run it on its own goroutine.
func (p *Server) Listen() {
	defer common.LogOnPanic()
	p.logger.Info("metrics server listening", zap.String("addr", p.server.Addr))
	err := p.server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	p.logger.Info("metrics server stopped", zap.Error(err))
}

func (p *Server) Stop(ctx context.Context) error {
	return p.server.Shutdown(ctx)
}
