package indicators

import (
	"testing"

	"github.com/rustyeddy/fractal/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candlesFromLows(lows ...float64) []market.Candle {
	out := make([]market.Candle, len(lows))
	for i, l := range lows {
		out[i] = market.Candle{Low: l, High: l + 1.0, Open: l + 0.5, Close: l + 0.5}
	}
	return out
}

func candlesFromHighs(highs ...float64) []market.Candle {
	out := make([]market.Candle, len(highs))
	for i, h := range highs {
		out[i] = market.Candle{High: h, Low: h - 1.0, Open: h - 0.5, Close: h - 0.5}
	}
	return out
}

func TestSwingLowConfirmation(t *testing.T) {
	// Middle bar strictly undercuts two bars on each side.
	candles := candlesFromLows(2000.10, 2000.08, 2000.00, 2000.06, 2000.12)

	upper, lower := FractalBuffers(candles, DefaultFractalWing, 3)
	require.Len(t, lower, 3)

	// Newest-first: the swing at position 2 of 5 lands in slot 2.
	assert.Equal(t, 0.0, lower[0])
	assert.Equal(t, 0.0, lower[1])
	assert.Equal(t, 2000.00, lower[2])

	for _, v := range upper {
		assert.Equal(t, 0.0, v, "no swing high in a v-shaped window")
	}
}

func TestSwingHighConfirmation(t *testing.T) {
	candles := candlesFromHighs(2001.00, 2001.10, 2001.50, 2001.20, 2001.05)

	upper, _ := FractalBuffers(candles, DefaultFractalWing, 3)
	assert.Equal(t, 2001.50, upper[2])
}

func TestEqualNeighborIsNotASwing(t *testing.T) {
	// Strict dominance: a tie with any wing bar disqualifies the extreme.
	candles := candlesFromLows(2000.10, 2000.00, 2000.00, 2000.06, 2000.12)

	_, lower := FractalBuffers(candles, DefaultFractalWing, 3)
	for _, v := range lower {
		assert.Equal(t, 0.0, v)
	}
}

func TestSwingNeedsFullWings(t *testing.T) {
	// Lowest bar sits one from the end; its right wing never closed.
	candles := candlesFromLows(2000.10, 2000.08, 2000.05, 2000.00, 2000.06)

	_, lower := FractalBuffers(candles, DefaultFractalWing, 3)
	for _, v := range lower {
		assert.Equal(t, 0.0, v)
	}
}

func TestFractalBuffersShortHistory(t *testing.T) {
	upper, lower := FractalBuffers(candlesFromLows(2000.00, 2000.10), DefaultFractalWing, 3)

	assert.Len(t, upper, 3)
	assert.Len(t, lower, 3)
	for i := range upper {
		assert.Equal(t, 0.0, upper[i])
		assert.Equal(t, 0.0, lower[i])
	}
}

func TestFractalBuffersBothSwingsInWindow(t *testing.T) {
	// A swing high then a swing low, each with full wings.
	candles := []market.Candle{
		{High: 2001.00, Low: 2000.50},
		{High: 2001.20, Low: 2000.60},
		{High: 2001.80, Low: 2000.70}, // swing high
		{High: 2001.10, Low: 2000.40},
		{High: 2001.00, Low: 2000.10}, // swing low
		{High: 2000.90, Low: 2000.30},
		{High: 2000.95, Low: 2000.50},
	}

	upper, lower := FractalBuffers(candles, DefaultFractalWing, 5)
	assert.Equal(t, 2000.10, lower[2])
	assert.Equal(t, 2001.80, upper[4])
}
