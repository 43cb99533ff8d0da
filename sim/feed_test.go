package sim

import (
	"context"
	"testing"
	"time"

	"github.com/rustyeddy/fractal/broker"
	"github.com/rustyeddy/fractal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedWarmup(t *testing.T) {
	ctx := context.Background()
	v := NewVenue(xau, 100000, nil)
	f := NewFeed(v)

	_, err := f.CurrentTick(ctx)
	assert.ErrorIs(t, err, broker.ErrNoTick)

	_, err = f.PreviousBar(ctx)
	assert.ErrorIs(t, err, broker.ErrNoBar)

	_, _, err = f.FractalBuffers(ctx, 3)
	assert.ErrorIs(t, err, broker.ErrNoBar)
}

func TestFeedServesQuoteAndBars(t *testing.T) {
	ctx := context.Background()
	v := NewVenue(xau, 100000, nil)
	f := NewFeed(v)

	require.NoError(t, v.UpdateTick(tick(t0, 1999.98, 2000.00)))
	got, err := f.CurrentTick(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2000.00, got.Ask)

	bar1 := market.Candle{Time: t0, Open: 2000, High: 2000.3, Low: 1999.9, Close: 2000.2}
	bar2 := market.Candle{Time: t0.Add(time.Minute), Open: 2000.2, High: 2000.4, Low: 2000.1, Close: 2000.3}
	f.AppendBar(bar1)
	f.AppendBar(bar2)

	prev, err := f.PreviousBar(ctx)
	require.NoError(t, err)
	assert.Equal(t, bar2.Time, prev.Time)
	assert.Len(t, f.Candles(), 2)
}

func TestFeedAppendBarAdvancesVenueBars(t *testing.T) {
	ctx := context.Background()
	v := NewVenue(xau, 100000, nil)
	v.ExpiryBars = 1
	f := NewFeed(v)
	require.NoError(t, v.UpdateTick(tick(t0, 2000.08, 2000.10)))

	_, err := v.SubmitLimit(ctx, broker.LimitOrderRequest{
		Symbol: "XAUUSD", Direction: market.Long, Lots: 1.0, Price: 2000.00,
	})
	require.NoError(t, err)

	f.AppendBar(market.Candle{Time: t0, Open: 2000, High: 2000.2, Low: 1999.9, Close: 2000.1})

	pending, _ := v.PendingOrders(ctx, "XAUUSD")
	assert.Empty(t, pending, "bar close expires the resting order")
}
