// Package metrics exposes the Prometheus instruments the engine updates
// while running:
//
//   - fractal_signals_total{side}          – confirmed swing candidates
//   - fractal_orders_total{kind,side}      – orders placed (market|limit)
//   - fractal_order_rejects_total          – venue rejections (dropped, not retried)
//   - fractal_positions_closed_total{reason} – close notifications by reason
//   - fractal_basket_exits_total           – basket take-profit liquidations
//   - fractal_breaker_trips_total{scope}   – drawdown breaker trips (daily|overall)
//   - fractal_equity                       – current account equity (gauge)
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	Signals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fractal_signals_total",
			Help: "Confirmed swing signals by side",
		},
		[]string{"side"},
	)

	OrdersPlaced = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fractal_orders_total",
			Help: "Orders placed by kind and side",
		},
		[]string{"kind", "side"},
	)

	OrderRejects = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fractal_order_rejects_total",
			Help: "Orders rejected by the venue",
		},
	)

	PositionsClosed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fractal_positions_closed_total",
			Help: "Position close notifications by reason",
		},
		[]string{"reason"},
	)

	BasketExits = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fractal_basket_exits_total",
			Help: "Basket take-profit liquidations",
		},
	)

	BreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fractal_breaker_trips_total",
			Help: "Drawdown circuit breaker trips by scope",
		},
		[]string{"scope"},
	)

	Equity = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "fractal_equity",
			Help: "Current account equity",
		},
	)
)

func init() {
	prometheus.MustRegister(
		Signals,
		OrdersPlaced,
		OrderRejects,
		PositionsClosed,
		BasketExits,
		BreakerTrips,
		Equity,
	)
}
