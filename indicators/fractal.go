package indicators

import "github.com/rustyeddy/fractal/market"

// DefaultFractalWing is the number of bars on each side a swing extreme
// must dominate before it is confirmed.
const DefaultFractalWing = 2

// isSwingHigh reports whether candles[i].High strictly exceeds the highs of
// the `wing` bars on each side.
func isSwingHigh(candles []market.Candle, i, wing int) bool {
	if i < wing || i+wing >= len(candles) {
		return false
	}
	h := candles[i].High
	for k := 1; k <= wing; k++ {
		if h <= candles[i-k].High || h <= candles[i+k].High {
			return false
		}
	}
	return true
}

func isSwingLow(candles []market.Candle, i, wing int) bool {
	if i < wing || i+wing >= len(candles) {
		return false
	}
	l := candles[i].Low
	for k := 1; k <= wing; k++ {
		if l >= candles[i-k].Low || l >= candles[i+k].Low {
			return false
		}
	}
	return true
}

// FractalBuffers computes the upper (swing-high) and lower (swing-low)
// fractal series over the closed candles, oldest first in the input.
//
// The returned slices are newest-first and lookback long: index 0 is the
// newest closed bar. A slot holds the extreme's price when that bar is a
// confirmed fractal, otherwise 0. With wing=2 a swing confirmed by the
// newest closed bar therefore appears at index 2.
func FractalBuffers(candles []market.Candle, wing, lookback int) (upper, lower []float64) {
	upper = make([]float64, lookback)
	lower = make([]float64, lookback)
	n := len(candles)
	for j := 0; j < lookback; j++ {
		i := n - 1 - j
		if i < 0 {
			break
		}
		if isSwingHigh(candles, i, wing) {
			upper[j] = candles[i].High
		}
		if isSwingLow(candles, i, wing) {
			lower[j] = candles[i].Low
		}
	}
	return upper, lower
}
