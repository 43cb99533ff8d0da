package strategy

import (
	"context"

	"github.com/rustyeddy/fractal/indicators"
	"github.com/rustyeddy/fractal/market"
)

// GateResult holds the outcome of each entry gate. All must pass before
// new-entry evaluation proceeds; trailing and risk management run
// regardless.
type GateResult struct {
	Session bool
	Spread  bool
	Range   bool
}

func (g GateResult) Pass() bool {
	return g.Session && g.Spread && g.Range
}

func (e *Engine) evalGates(snap Snapshot) GateResult {
	return GateResult{
		Session: e.sessionOpen(snap.Hour),
		Spread:  e.spreadOK(snap.Tick),
		Range:   e.rangeOK(snap.PrevBar),
	}
}

// sessionOpen checks the trading-hour window. When start > end the window
// wraps midnight: hour >= start OR hour <= end.
func (e *Engine) sessionOpen(hour int) bool {
	if !e.cfg.SessionFilterOn {
		return true
	}
	start, end := e.cfg.SessionStartHour, e.cfg.SessionEndHour
	if start <= end {
		return hour >= start && hour <= end
	}
	return hour >= start || hour <= end
}

func (e *Engine) spreadOK(tick market.Tick) bool {
	if e.cfg.MaxSpreadTicks <= 0 {
		return true
	}
	if e.meta.TickSize <= 0 {
		return false
	}
	return tick.SpreadTicks(e.meta.TickSize) <= float64(e.cfg.MaxSpreadTicks)
}

// rangeOK requires the previous bar to span at least the configured tick
// count. Unusable bar data fails closed rather than silently skipping the
// check.
func (e *Engine) rangeOK(bar market.Candle) bool {
	if e.cfg.MinBarRangeTicks <= 0 {
		return true
	}
	rt := bar.RangeTicks(e.meta.TickSize)
	if rt < 0 {
		return false
	}
	return rt >= e.cfg.MinBarRangeTicks
}

// directionAllowed applies the optional trend-slope bias. Each direction is
// evaluated independently against the slope sign: a falling MA blocks
// longs, a rising MA blocks shorts, a flat slope blocks neither. The
// asymmetry is deliberate.
func (e *Engine) directionAllowed(ctx context.Context, dir market.Direction) bool {
	if !e.cfg.TrendFilterOn {
		return true
	}
	series, err := e.deps.Feed.MASeries(ctx, e.cfg.TrendMALength, e.cfg.TrendSlopeLookback+1)
	if err != nil {
		return false // indicator not ready; no entries on this side
	}
	slope, err := indicators.Slope(series, e.cfg.TrendSlopeLookback)
	if err != nil {
		return false
	}
	if dir == market.Long && slope < 0 {
		return false
	}
	if dir == market.Short && slope > 0 {
		return false
	}
	return true
}
