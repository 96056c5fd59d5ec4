package clob

import "github.com/prometheus/client_golang/prometheus"

// Package-level metric vars registered once in init(), the same shape
// chidi150c's metrics.go uses for its trading-bot counters: plain
// CounterVec/Counter globals, MustRegister'd up front, incremented
// inline from the matching loop rather than threaded through as
// dependencies.
var (
	ordersPlacedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clob_orders_placed_total",
			Help: "Orders injected into the book as resting makers by place_limit, labeled by side.",
		},
		[]string{"side"},
	)

	fillsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clob_fills_total",
			Help: "Maker fills executed across all matching loops.",
		},
	)

	takerCommissionTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clob_taker_commission_total",
			Help: "Cumulative taker commission collected, in quote-asset base units.",
		},
	)

	tradingFeesAccrued = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clob_trading_fees_accrued",
			Help: "quote_asset_trading_fees of the pool that most recently updated it.",
		},
	)
)

func init() {
	prometheus.MustRegister(ordersPlacedTotal, fillsTotal, takerCommissionTotal, tradingFeesAccrued)
}

func recordOrderPlaced(isBid bool) {
	side := "ask"
	if isBid {
		side = "bid"
	}
	ordersPlacedTotal.WithLabelValues(side).Inc()
}

func recordFill(takerCommission uint64) {
	fillsTotal.Inc()
	takerCommissionTotal.Add(float64(takerCommission))
}

func recordTradingFeesAccrued(total uint64) {
	tradingFeesAccrued.Set(float64(total))
}
