package strategy

import (
	"context"
	"math"

	"github.com/rustyeddy/fractal/broker"
	"github.com/rustyeddy/fractal/market"
)

// TrailState is the engine-owned record for one tracked open position.
// Invariants: Best never worsens once created (max for long, min for
// short); BEArmed transitions false->true exactly once and never reverts.
// Records are created lazily on first observation and removed only when the
// venue reports the position's closing deal.
type TrailState struct {
	PositionID string
	Best       float64
	BEArmed    bool
}

// manageTrailing advances protective stops for every open position. The
// stop only ever tightens, and only in whole multiples of the trail step so
// a fast tick stream does not turn into an order-modify storm.
func (e *Engine) manageTrailing(ctx context.Context, tick market.Tick) {
	if !e.cfg.TrailEnabled {
		return
	}
	positions, err := e.deps.Venue.OpenPositions(ctx, e.cfg.Symbol)
	if err != nil {
		return
	}
	for i := range positions {
		e.trailOne(ctx, &positions[i], tick)
	}
}

func (e *Engine) trailOne(ctx context.Context, pos *broker.Position, tick market.Tick) {
	ts, ok := e.trail[pos.ID]
	if !ok {
		ts = &TrailState{PositionID: pos.ID, Best: pos.EntryPrice}
		e.trail[pos.ID] = ts
	}

	sign := pos.Direction.Sign()

	// The close side is the price the position could exit at right now.
	mark := tick.Bid
	if pos.Direction == market.Short {
		mark = tick.Ask
	}

	if sign*(mark-ts.Best) > 0 {
		ts.Best = mark
	}

	if !ts.BEArmed {
		if sign*(mark-pos.EntryPrice) < float64(e.cfg.BETriggerTicks)*e.meta.TickSize {
			return
		}
		ts.BEArmed = true
		candidate := pos.EntryPrice + sign*float64(e.cfg.BEBufferTicks)*e.meta.TickSize
		if improves(pos.StopLoss, candidate, sign) {
			e.modifyStop(ctx, pos, candidate)
			pos.StopLoss = candidate
		}
		return
	}

	target := ts.Best - sign*float64(e.cfg.TrailGapTicks)*e.meta.TickSize
	stepSize := float64(e.cfg.TrailStepTicks) * e.meta.TickSize

	current := pos.StopLoss
	if current == 0 {
		// No protective stop on the book yet; take the full move.
		if improves(current, target, sign) {
			e.modifyStop(ctx, pos, target)
		}
		return
	}

	steps := math.Floor(sign * (target - current) / stepSize)
	if steps <= 0 {
		return
	}
	e.modifyStop(ctx, pos, current+sign*steps*stepSize)
}

// improves reports whether candidate tightens protection relative to the
// current stop. A zero current stop means there is none, so any candidate
// improves it.
func improves(current, candidate float64, sign float64) bool {
	if current == 0 {
		return true
	}
	return sign*(candidate-current) > 0
}

func (e *Engine) modifyStop(ctx context.Context, pos *broker.Position, stop float64) {
	// Position may have been closed by the venue since we listed it.
	if err := e.deps.Venue.ModifyStops(ctx, pos.ID, stop, pos.TakeProfit); err != nil {
		return
	}
}
