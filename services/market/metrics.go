package market

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

const (
	tradeBuy  = "buy"
	tradeList = "list"

	resultSuccess  = "success"
	resultRejected = "rejected"
	resultFailed   = "failed"
)

var (
	tradesCounter = prom.NewCounterVec(prom.CounterOpts{
		Name: "nftmarket_trades_total",
		Help: "Trades attempted, split by kind and result.",
	}, []string{"kind", "result"})
	feedFetchCounter = prom.NewCounterVec(prom.CounterOpts{
		Name: "nftmarket_catalog_fetches_total",
		Help: "Catalog fetches from the backend, split by result.",
	}, []string{"result"})
	feedRevealedCounter = prom.NewCounter(prom.CounterOpts{
		Name: "nftmarket_cards_rendered_total",
		Help: "Catalog entries rendered as cards.",
	})
	connectionsCounter = prom.NewCounterVec(prom.CounterOpts{
		Name: "nftmarket_wallet_connections_total",
		Help: "Wallet connection attempts, split by result.",
	}, []string{"result"})
	backendUpGauge = prom.NewGauge(prom.GaugeOpts{
		Name: "nftmarket_backend_up",
		Help: "Whether the last backend request got an answer.",
	})
)

func init() {
	prom.MustRegister(tradesCounter)
	prom.MustRegister(feedFetchCounter)
	prom.MustRegister(feedRevealedCounter)
	prom.MustRegister(connectionsCounter)
	prom.MustRegister(backendUpGauge)
}
