package market

import "time"

// Tick is a single bid/ask quote.
type Tick struct {
	Symbol string
	Time   time.Time
	Bid    float64
	Ask    float64
}

func (t Tick) Mid() float64 {
	return (t.Bid + t.Ask) / 2
}

// Spread returns ask-bid in price terms.
func (t Tick) Spread() float64 {
	return t.Ask - t.Bid
}

// SpreadTicks converts the spread to whole ticks for the given tick size.
// Returns 0 for a non-positive tick size.
func (t Tick) SpreadTicks(tickSize float64) float64 {
	if tickSize <= 0 {
		return 0
	}
	return t.Spread() / tickSize
}
