package market

import "time"

// Candle represents OHLC (Open, High, Low, Close) candlestick data
type Candle struct {
	Time   time.Time // bar open time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Range returns high-low in price terms.
func (c Candle) Range() float64 {
	return c.High - c.Low
}

// RangeTicks returns the bar range rounded to whole ticks, or -1 when the
// bar or tick size is unusable (zero high/low, non-positive tick size).
// Callers treating -1 as "fail closed" is deliberate.
func (c Candle) RangeTicks(tickSize float64) int {
	if tickSize <= 0 || c.High <= 0 || c.Low <= 0 {
		return -1
	}
	return int(c.Range()/tickSize + 0.5)
}
