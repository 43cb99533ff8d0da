package sim

import (
	"context"

	"github.com/rustyeddy/fractal/broker"
	"github.com/rustyeddy/fractal/indicators"
	"github.com/rustyeddy/fractal/market"
)

// Feed implements broker.MarketFeed over a venue's quote stream and an
// accumulated history of closed bars. Indicator series are computed on
// demand from the history.
type Feed struct {
	venue   *Venue
	candles []market.Candle // closed bars, oldest first

	// Wing is the fractal confirmation width.
	Wing int
}

func NewFeed(v *Venue) *Feed {
	return &Feed{venue: v, Wing: indicators.DefaultFractalWing}
}

// AppendBar records a newly completed bar and lets the venue expire stale
// resting orders.
func (f *Feed) AppendBar(c market.Candle) {
	f.candles = append(f.candles, c)
	f.venue.OnBarClose()
}

// Candles exposes the closed-bar history.
func (f *Feed) Candles() []market.Candle { return f.candles }

func (f *Feed) CurrentTick(ctx context.Context) (market.Tick, error) {
	if f.venue.tick.Time.IsZero() {
		return market.Tick{}, broker.ErrNoTick
	}
	return f.venue.tick, nil
}

func (f *Feed) PreviousBar(ctx context.Context) (market.Candle, error) {
	if len(f.candles) == 0 {
		return market.Candle{}, broker.ErrNoBar
	}
	return f.candles[len(f.candles)-1], nil
}

func (f *Feed) FractalBuffers(ctx context.Context, lookback int) (upper, lower []float64, err error) {
	if len(f.candles) < lookback {
		return nil, nil, broker.ErrNoBar
	}
	upper, lower = indicators.FractalBuffers(f.candles, f.Wing, lookback)
	return upper, lower, nil
}

func (f *Feed) MASeries(ctx context.Context, length, lookback int) ([]float64, error) {
	return indicators.SMASeries(f.candles, length, lookback)
}
