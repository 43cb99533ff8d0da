package broker

import (
	"context"
	"errors"
	"time"

	"github.com/rustyeddy/fractal/market"
)

// Sentinel conditions a venue may report. The engine treats a missing
// position or order as a no-op, never as a failure.
var (
	ErrPositionNotFound = errors.New("position not found")
	ErrOrderNotFound    = errors.New("order not found")
	ErrNoTick           = errors.New("no tick available")
	ErrNoBar            = errors.New("no completed bar available")
)

// MarketFeed supplies prices, bars and indicator series. Implementations
// return ErrNoTick/ErrNoBar while warming up; callers skip the cycle.
type MarketFeed interface {
	CurrentTick(ctx context.Context) (market.Tick, error)
	// PreviousBar returns the most recently completed bar.
	PreviousBar(ctx context.Context) (market.Candle, error)
	// FractalBuffers returns the newest `lookback` values of the upper
	// (swing-high) and lower (swing-low) fractal series, newest first.
	// Unconfirmed slots are zero.
	FractalBuffers(ctx context.Context, lookback int) (upper, lower []float64, err error)
	// MASeries returns the newest `lookback` values of a simple moving
	// average of the given length, newest first.
	MASeries(ctx context.Context, length, lookback int) ([]float64, error)
}

// Position is a venue-owned open position. The engine only ever reads it;
// the venue may close or modify it at any time.
type Position struct {
	ID         string
	Symbol     string
	Direction  market.Direction
	Lots       float64
	EntryPrice float64
	StopLoss   float64 // 0 = none
	TakeProfit float64 // 0 = none
	OpenTime   time.Time
}

// PendingOrder is a venue-owned resting limit order.
type PendingOrder struct {
	ID         string
	Symbol     string
	Direction  market.Direction
	Lots       float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
	PlacedTime time.Time
}

// MarketOrderRequest opens a position at the current market price.
type MarketOrderRequest struct {
	Symbol     string
	Direction  market.Direction
	Lots       float64
	StopLoss   float64
	TakeProfit float64
}

// LimitOrderRequest rests an order at Price until filled, cancelled or
// expired by the venue.
type LimitOrderRequest struct {
	Symbol     string
	Direction  market.Direction
	Lots       float64
	Price      float64
	StopLoss   float64
	TakeProfit float64
}

// ExecutionVenue is the order/position surface of the external broker.
// Every call returns fully populated records; there is no notion of a
// "currently selected" position. All commands are safe to reissue.
type ExecutionVenue interface {
	OpenPositions(ctx context.Context, symbol string) ([]Position, error)
	PendingOrders(ctx context.Context, symbol string) ([]PendingOrder, error)
	SubmitMarket(ctx context.Context, req MarketOrderRequest) (Position, error)
	SubmitLimit(ctx context.Context, req LimitOrderRequest) (PendingOrder, error)
	// ModifyStops replaces the protective levels on an open position.
	// A zero value leaves the corresponding level unset.
	ModifyStops(ctx context.Context, positionID string, stopLoss, takeProfit float64) error
	ClosePosition(ctx context.Context, positionID string) error
	CancelOrder(ctx context.Context, orderID string) error
	// FloatingPL returns the current unrealized profit of an open
	// position in account currency.
	FloatingPL(ctx context.Context, positionID string) (float64, error)
}

// AccountInfo reports account state.
type AccountInfo interface {
	Equity(ctx context.Context) (float64, error)
}

// Clock abstracts wall time so session and day-rollover logic is testable.
type Clock interface {
	Now() time.Time
}

// PositionClosedHandler receives the asynchronous notification that a
// position's closing deal has been finalized by the venue.
type PositionClosedHandler interface {
	OnPositionClosed(positionID string, reason string)
}

// TradeEventStream lets the engine subscribe to close notifications.
type TradeEventStream interface {
	SetPositionClosedHandler(h PositionClosedHandler)
}

// SystemClock is the default Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
