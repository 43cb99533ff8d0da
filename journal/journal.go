// journal/journal.go
package journal

import (
	"time"

	"github.com/rustyeddy/fractal/market"
)

// TradeRecord is one closed position.
type TradeRecord struct {
	TradeID    string
	Symbol     string
	Direction  market.Direction
	Lots       float64
	EntryPrice float64
	ExitPrice  float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	Reason     string
}

// EquitySnapshot is the account state after a fill or close.
type EquitySnapshot struct {
	Time          time.Time
	Balance       float64
	Equity        float64
	Floating      float64
	OpenPositions int
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}

func parseDirection(s string) market.Direction {
	if s == "SHORT" {
		return market.Short
	}
	return market.Long
}

// Discard is a Journal that drops everything; used when journaling is off.
type Discard struct{}

func (Discard) RecordTrade(TradeRecord) error    { return nil }
func (Discard) RecordEquity(EquitySnapshot) error { return nil }
func (Discard) Close() error                      { return nil }
