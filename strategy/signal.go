package strategy

import (
	"context"

	"github.com/rustyeddy/fractal/market"
	"github.com/rustyeddy/fractal/metrics"
)

// signalLookback is the fractal buffer window read each new bar. The
// middle-confirmed slot sits at the last index: a swing is only final once
// the bars on its far side have closed.
const signalLookback = 3

const confirmedIndex = signalLookback - 1

// SwingSignal is a newly confirmed swing extreme: a candidate entry at the
// raw indicator price, no offset applied. Transient; never retained across
// bars.
type SwingSignal struct {
	Direction market.Direction
	Level     float64
}

// detectSignals reads the fractal buffers once per new bar and emits at
// most one long and one short candidate. A confirmed swing low is a long
// candidate (buy the dip back to the level); a confirmed swing high is a
// short candidate.
func (e *Engine) detectSignals(ctx context.Context) []SwingSignal {
	upper, lower, err := e.deps.Feed.FractalBuffers(ctx, signalLookback)
	if err != nil {
		return nil // indicator not ready; skip this bar's entries
	}
	if len(upper) < signalLookback || len(lower) < signalLookback {
		return nil
	}

	var signals []SwingSignal
	if level := lower[confirmedIndex]; level > 0 {
		signals = append(signals, SwingSignal{Direction: market.Long, Level: level})
		metrics.Signals.WithLabelValues("long").Inc()
	}
	if level := upper[confirmedIndex]; level > 0 {
		signals = append(signals, SwingSignal{Direction: market.Short, Level: level})
		metrics.Signals.WithLabelValues("short").Inc()
	}
	return signals
}
