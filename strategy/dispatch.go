package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/fractal/broker"
	"github.com/rustyeddy/fractal/market"
	"github.com/rustyeddy/fractal/metrics"
	"github.com/rustyeddy/fractal/risk"
)

// dispatch turns a sized candidate into an order. Market-on-touch fires an
// immediate market order only when price is already at or through the
// level, with protective levels computed from the fill reference price.
// Otherwise a limit order rests exactly at the level with protective levels
// computed from it. Returns whether an order was placed.
func (e *Engine) dispatch(ctx context.Context, snap Snapshot, sig SwingSignal) (bool, error) {
	size := risk.Size(risk.SizeInputs{
		TPTicksMin: e.cfg.TPTicksMin,
		TPTicksMax: e.cfg.TPTicksMax,
		SLTicksMin: e.cfg.SLTicksMin,
		SLTicksMax: e.cfg.SLTicksMax,
		TPCashMin:  e.cfg.TPCashMin,
		TPCashMax:  e.cfg.TPCashMax,
		SLCash:     e.cfg.SLCash,
		TickValue:  e.meta.TickValue,
		VolumeStep: e.meta.VolumeStep,
		VolumeMin:  e.meta.VolumeMin,
		VolumeMax:  e.meta.VolumeMax,
	}, e.deps.Rand)
	if size.Lots <= 0 {
		return false, nil
	}

	if e.cfg.EntryOnTouch {
		return e.marketOnTouch(ctx, snap, sig, size)
	}
	return e.restingLimit(ctx, sig, size)
}

func (e *Engine) marketOnTouch(ctx context.Context, snap Snapshot, sig SwingSignal, size risk.SizeResult) (bool, error) {
	var ref float64
	switch sig.Direction {
	case market.Long:
		if snap.Tick.Ask > sig.Level {
			return false, nil // price has not come back to the level
		}
		ref = snap.Tick.Ask
	case market.Short:
		if snap.Tick.Bid < sig.Level {
			return false, nil
		}
		ref = snap.Tick.Bid
	}

	stop, take := e.protectiveLevels(sig.Direction, ref, size)
	pos, err := e.deps.Venue.SubmitMarket(ctx, broker.MarketOrderRequest{
		Symbol:     e.cfg.Symbol,
		Direction:  sig.Direction,
		Lots:       size.Lots,
		StopLoss:   stop,
		TakeProfit: take,
	})
	if err != nil {
		return false, err
	}
	metrics.OrdersPlaced.WithLabelValues("market", sig.Direction.String()).Inc()
	if e.Verbose {
		fmt.Printf("%s ENTRY %s %s lots=%.2f entry=%.5f stop=%.5f tp=%.5f tpTicks=%d slTicks=%d\n",
			e.deps.Clock.Now().UTC().Format(time.RFC3339),
			e.cfg.Symbol, sig.Direction, size.Lots, ref, stop, take, size.TPTicks, size.SLTicks)
	}
	_ = pos
	return true, nil
}

func (e *Engine) restingLimit(ctx context.Context, sig SwingSignal, size risk.SizeResult) (bool, error) {
	stop, take := e.protectiveLevels(sig.Direction, sig.Level, size)
	ord, err := e.deps.Venue.SubmitLimit(ctx, broker.LimitOrderRequest{
		Symbol:     e.cfg.Symbol,
		Direction:  sig.Direction,
		Lots:       size.Lots,
		Price:      sig.Level,
		StopLoss:   stop,
		TakeProfit: take,
	})
	if err != nil {
		return false, err
	}
	metrics.OrdersPlaced.WithLabelValues("limit", sig.Direction.String()).Inc()
	if e.Verbose {
		fmt.Printf("%s LIMIT %s %s lots=%.2f level=%.5f stop=%.5f tp=%.5f\n",
			e.deps.Clock.Now().UTC().Format(time.RFC3339),
			e.cfg.Symbol, sig.Direction, size.Lots, sig.Level, stop, take)
	}
	_ = ord
	return true, nil
}

// protectiveLevels places stop and take-profit at the drawn tick distances
// around the reference price.
func (e *Engine) protectiveLevels(dir market.Direction, ref float64, size risk.SizeResult) (stop, take float64) {
	sign := dir.Sign()
	stop = ref - sign*float64(size.SLTicks)*e.meta.TickSize
	take = ref + sign*float64(size.TPTicks)*e.meta.TickSize
	return stop, take
}
