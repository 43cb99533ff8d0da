package strategy

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/fractal/metrics"
)

// basketExit sums floating profit across every open position for the
// traded symbol and, when the configured cash target is met, closes
// everything and cancels every resting order. No new entries are attempted
// in the cycle it fires.
func (e *Engine) basketExit(ctx context.Context) (bool, error) {
	if !e.cfg.BasketExitOn {
		return false, nil
	}
	positions, err := e.deps.Venue.OpenPositions(ctx, e.cfg.Symbol)
	if err != nil || len(positions) == 0 {
		return false, nil
	}

	var floating float64
	for _, p := range positions {
		pl, err := e.deps.Venue.FloatingPL(ctx, p.ID)
		if err != nil {
			continue // closed out from under us; its P&L is realized now
		}
		floating += pl
	}

	if floating < e.cfg.BasketTPCash {
		return false, nil
	}

	fmt.Printf("%s BASKET-TP floating=%.2f target=%.2f -> close all\n",
		e.deps.Clock.Now().UTC().Format(time.RFC3339), floating, e.cfg.BasketTPCash)
	metrics.BasketExits.Inc()
	e.flattenAll(ctx)
	return true, nil
}
