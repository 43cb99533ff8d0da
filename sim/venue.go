package sim

import (
	"context"
	"time"

	"github.com/rustyeddy/fractal/broker"
	"github.com/rustyeddy/fractal/internal/id"
	"github.com/rustyeddy/fractal/journal"
	"github.com/rustyeddy/fractal/market"
)

// Venue is an in-process execution venue and account for one symbol. It
// fills market orders at the current quote, rests limit orders until
// touched or expired, auto-closes on stop/take-profit, and notifies an
// optional handler about every closing deal. It also serves as the Clock:
// simulated time advances with the quotes it is given.
type Venue struct {
	meta market.SymbolMeta

	balance float64
	tick    market.Tick
	now     time.Time

	trades   map[string]*Trade
	orders   map[string]*Order
	barCount int

	journal journal.Journal
	handler broker.PositionClosedHandler

	// ExpiryBars is how many closed bars a resting order survives.
	// Zero keeps orders until cancelled.
	ExpiryBars int
}

func NewVenue(meta market.SymbolMeta, balance float64, j journal.Journal) *Venue {
	if j == nil {
		j = journal.Discard{}
	}
	return &Venue{
		meta:    meta,
		balance: balance,
		trades:  make(map[string]*Trade),
		orders:  make(map[string]*Order),
		journal: j,
	}
}

// SetPositionClosedHandler implements broker.TradeEventStream.
func (v *Venue) SetPositionClosedHandler(h broker.PositionClosedHandler) {
	v.handler = h
}

// Now implements broker.Clock with simulated time.
func (v *Venue) Now() time.Time { return v.now }

// UpdateTick advances the quote, fills touched limit orders and auto-closes
// any position whose protective level was reached. Fills happen before
// protective checks so a position opened and stopped on the same quote
// resolves deterministically.
func (v *Venue) UpdateTick(t market.Tick) error {
	v.tick = t
	v.now = t.Time

	for oid, o := range v.orders {
		if !limitTouched(o, t) {
			continue
		}
		delete(v.orders, oid)
		v.openTrade(o.Direction, o.Lots, o.Price, o.StopLoss, o.TakeProfit)
	}

	for _, tr := range v.trades {
		if !tr.Open {
			continue
		}
		mark := t.Bid
		if tr.Direction == market.Short {
			mark = t.Ask
		}
		switch {
		case hitStopLoss(tr, mark):
			// Fill at the protective level itself; tick-level replay
			// makes the level and the mark coincide.
			if err := v.closeTrade(tr, tr.StopLoss, "StopLoss"); err != nil {
				return err
			}
		case hitTakeProfit(tr, mark):
			if err := v.closeTrade(tr, tr.TakeProfit, "TakeProfit"); err != nil {
				return err
			}
		}
	}
	return nil
}

// OnBarClose counts a completed bar and expires stale resting orders.
func (v *Venue) OnBarClose() {
	v.barCount++
	if v.ExpiryBars <= 0 {
		return
	}
	for oid, o := range v.orders {
		if v.barCount >= o.ExpiryBar {
			delete(v.orders, oid)
		}
	}
}

func (v *Venue) openTrade(dir market.Direction, lots, entry, sl, tp float64) *Trade {
	tr := &Trade{
		ID:         id.New(),
		Symbol:     v.meta.Name,
		Direction:  dir,
		Lots:       lots,
		EntryPrice: entry,
		StopLoss:   sl,
		TakeProfit: tp,
		OpenTime:   v.now,
		Open:       true,
	}
	v.trades[tr.ID] = tr
	return tr
}

func (v *Venue) closeTrade(tr *Trade, closePrice float64, reason string) error {
	pl := UnrealizedPL(tr, closePrice, v.meta)

	tr.ClosePrice = closePrice
	tr.CloseTime = v.now
	tr.RealizedPL = pl
	tr.Reason = reason
	tr.Open = false
	v.balance += pl

	if err := v.journal.RecordTrade(journal.TradeRecord{
		TradeID:    tr.ID,
		Symbol:     tr.Symbol,
		Direction:  tr.Direction,
		Lots:       tr.Lots,
		EntryPrice: tr.EntryPrice,
		ExitPrice:  closePrice,
		OpenTime:   tr.OpenTime,
		CloseTime:  tr.CloseTime,
		RealizedPL: pl,
		Reason:     reason,
	}); err != nil {
		return err
	}
	if err := v.snapshotEquity(); err != nil {
		return err
	}

	if v.handler != nil {
		v.handler.OnPositionClosed(tr.ID, reason)
	}
	return nil
}

func (v *Venue) snapshotEquity() error {
	floating, open := v.floatingTotal()
	return v.journal.RecordEquity(journal.EquitySnapshot{
		Time:          v.now,
		Balance:       v.balance,
		Equity:        v.balance + floating,
		Floating:      floating,
		OpenPositions: open,
	})
}

func (v *Venue) floatingTotal() (float64, int) {
	var floating float64
	var open int
	for _, tr := range v.trades {
		if !tr.Open {
			continue
		}
		mark := v.tick.Bid
		if tr.Direction == market.Short {
			mark = v.tick.Ask
		}
		floating += UnrealizedPL(tr, mark, v.meta)
		open++
	}
	return floating, open
}

// Balance returns the realized account balance.
func (v *Venue) Balance() float64 { return v.balance }

// Equity implements broker.AccountInfo.
func (v *Venue) Equity(ctx context.Context) (float64, error) {
	floating, _ := v.floatingTotal()
	return v.balance + floating, nil
}

// OpenPositions implements broker.ExecutionVenue.
func (v *Venue) OpenPositions(ctx context.Context, symbol string) ([]broker.Position, error) {
	var out []broker.Position
	for _, tr := range v.trades {
		if !tr.Open || tr.Symbol != symbol {
			continue
		}
		out = append(out, broker.Position{
			ID:         tr.ID,
			Symbol:     tr.Symbol,
			Direction:  tr.Direction,
			Lots:       tr.Lots,
			EntryPrice: tr.EntryPrice,
			StopLoss:   tr.StopLoss,
			TakeProfit: tr.TakeProfit,
			OpenTime:   tr.OpenTime,
		})
	}
	return out, nil
}

// PendingOrders implements broker.ExecutionVenue.
func (v *Venue) PendingOrders(ctx context.Context, symbol string) ([]broker.PendingOrder, error) {
	var out []broker.PendingOrder
	for _, o := range v.orders {
		if o.Symbol != symbol {
			continue
		}
		out = append(out, broker.PendingOrder{
			ID:         o.ID,
			Symbol:     o.Symbol,
			Direction:  o.Direction,
			Lots:       o.Lots,
			Price:      o.Price,
			StopLoss:   o.StopLoss,
			TakeProfit: o.TakeProfit,
			PlacedTime: o.PlacedTime,
		})
	}
	return out, nil
}

// SubmitMarket implements broker.ExecutionVenue: fills immediately at the
// current quote (ask for long, bid for short).
func (v *Venue) SubmitMarket(ctx context.Context, req broker.MarketOrderRequest) (broker.Position, error) {
	if v.tick.Time.IsZero() {
		return broker.Position{}, broker.ErrNoTick
	}
	fill := v.tick.Ask
	if req.Direction == market.Short {
		fill = v.tick.Bid
	}
	tr := v.openTrade(req.Direction, req.Lots, fill, req.StopLoss, req.TakeProfit)
	return broker.Position{
		ID:         tr.ID,
		Symbol:     tr.Symbol,
		Direction:  tr.Direction,
		Lots:       tr.Lots,
		EntryPrice: tr.EntryPrice,
		StopLoss:   tr.StopLoss,
		TakeProfit: tr.TakeProfit,
		OpenTime:   tr.OpenTime,
	}, nil
}

// SubmitLimit implements broker.ExecutionVenue.
func (v *Venue) SubmitLimit(ctx context.Context, req broker.LimitOrderRequest) (broker.PendingOrder, error) {
	o := &Order{
		ID:         id.New(),
		Symbol:     req.Symbol,
		Direction:  req.Direction,
		Lots:       req.Lots,
		Price:      req.Price,
		StopLoss:   req.StopLoss,
		TakeProfit: req.TakeProfit,
		PlacedTime: v.now,
		ExpiryBar:  v.barCount + v.ExpiryBars,
	}
	v.orders[o.ID] = o
	return broker.PendingOrder{
		ID:         o.ID,
		Symbol:     o.Symbol,
		Direction:  o.Direction,
		Lots:       o.Lots,
		Price:      o.Price,
		StopLoss:   o.StopLoss,
		TakeProfit: o.TakeProfit,
		PlacedTime: o.PlacedTime,
	}, nil
}

// ModifyStops implements broker.ExecutionVenue.
func (v *Venue) ModifyStops(ctx context.Context, positionID string, stopLoss, takeProfit float64) error {
	tr, ok := v.trades[positionID]
	if !ok || !tr.Open {
		return broker.ErrPositionNotFound
	}
	tr.StopLoss = stopLoss
	tr.TakeProfit = takeProfit
	return nil
}

// ClosePosition implements broker.ExecutionVenue: closes at the current
// quote. Closing an already-closed or unknown position is a not-found.
func (v *Venue) ClosePosition(ctx context.Context, positionID string) error {
	tr, ok := v.trades[positionID]
	if !ok || !tr.Open {
		return broker.ErrPositionNotFound
	}
	mark := v.tick.Bid
	if tr.Direction == market.Short {
		mark = v.tick.Ask
	}
	return v.closeTrade(tr, mark, "ManualClose")
}

// CancelOrder implements broker.ExecutionVenue.
func (v *Venue) CancelOrder(ctx context.Context, orderID string) error {
	if _, ok := v.orders[orderID]; !ok {
		return broker.ErrOrderNotFound
	}
	delete(v.orders, orderID)
	return nil
}

// FloatingPL implements broker.ExecutionVenue.
func (v *Venue) FloatingPL(ctx context.Context, positionID string) (float64, error) {
	tr, ok := v.trades[positionID]
	if !ok || !tr.Open {
		return 0, broker.ErrPositionNotFound
	}
	mark := v.tick.Bid
	if tr.Direction == market.Short {
		mark = v.tick.Ask
	}
	return UnrealizedPL(tr, mark, v.meta), nil
}

// ClosedTrades returns the realized book, for replay summaries and tests.
func (v *Venue) ClosedTrades() []*Trade {
	var out []*Trade
	for _, tr := range v.trades {
		if !tr.Open {
			out = append(out, tr)
		}
	}
	return out
}
