package indicators

import (
	"fmt"

	"github.com/rustyeddy/fractal/market"
)

// SMA calculates the Simple Moving Average of the closes of the last
// `period` candles.
func SMA(candles []market.Candle, period int) (float64, error) {
	if period <= 0 {
		return 0, fmt.Errorf("period must be positive, got %d", period)
	}
	if len(candles) < period {
		return 0, fmt.Errorf("not enough candles: need %d, got %d", period, len(candles))
	}

	sum := 0.0
	for i := len(candles) - period; i < len(candles); i++ {
		sum += candles[i].Close
	}
	return sum / float64(period), nil
}

// SMASeries returns the newest `lookback` SMA values, newest first.
// Index 0 is the SMA ending at the newest closed candle, index 1 the SMA
// ending one bar earlier, and so on.
func SMASeries(candles []market.Candle, period, lookback int) ([]float64, error) {
	if lookback <= 0 {
		return nil, fmt.Errorf("lookback must be positive, got %d", lookback)
	}
	if len(candles) < period+lookback-1 {
		return nil, fmt.Errorf("not enough candles: need %d, got %d", period+lookback-1, len(candles))
	}

	out := make([]float64, lookback)
	for j := 0; j < lookback; j++ {
		v, err := SMA(candles[:len(candles)-j], period)
		if err != nil {
			return nil, err
		}
		out[j] = v
	}
	return out, nil
}

// Slope returns the difference between the newest series value and the
// value `lookback` slots earlier. Series are newest-first, as returned by
// SMASeries.
func Slope(series []float64, lookback int) (float64, error) {
	if lookback <= 0 || lookback >= len(series) {
		return 0, fmt.Errorf("lookback %d out of range for series of %d", lookback, len(series))
	}
	return series[0] - series[lookback], nil
}
