package sim

import (
	"time"

	"github.com/rustyeddy/fractal/market"
)

// Trade is one venue-owned position in the simulated book.
type Trade struct {
	ID         string
	Symbol     string
	Direction  market.Direction
	Lots       float64
	EntryPrice float64
	OpenTime   time.Time

	StopLoss   float64 // 0 = none
	TakeProfit float64 // 0 = none

	// Realized
	ClosePrice float64
	CloseTime  time.Time
	RealizedPL float64
	Reason     string
	Open       bool
}

// Order is a resting limit order. ExpiryBar is the closed-bar count after
// which the venue drops it; 0 means good-till-cancelled.
type Order struct {
	ID         string
	Symbol     string
	Direction  market.Direction
	Lots       float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	PlacedTime time.Time
	ExpiryBar  int
}

func hitStopLoss(t *Trade, mark float64) bool {
	if t.StopLoss == 0 {
		return false
	}
	if t.Direction == market.Long {
		return mark <= t.StopLoss
	}
	return mark >= t.StopLoss
}

func hitTakeProfit(t *Trade, mark float64) bool {
	if t.TakeProfit == 0 {
		return false
	}
	if t.Direction == market.Long {
		return mark >= t.TakeProfit
	}
	return mark <= t.TakeProfit
}

// limitTouched reports whether the current quote reaches the resting price:
// a long limit sits below the market and fills when the ask comes down to
// it, a short limit fills when the bid rises to it.
func limitTouched(o *Order, tick market.Tick) bool {
	if o.Direction == market.Long {
		return tick.Ask <= o.Price
	}
	return tick.Bid >= o.Price
}

// UnrealizedPL marks a trade against the given close-side price using the
// symbol's tick value.
func UnrealizedPL(t *Trade, mark float64, meta market.SymbolMeta) float64 {
	if meta.TickSize <= 0 {
		return 0
	}
	ticks := t.Direction.Sign() * (mark - t.EntryPrice) / meta.TickSize
	return ticks * meta.TickValue * t.Lots
}
