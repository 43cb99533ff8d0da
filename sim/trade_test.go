package sim

import (
	"testing"

	"github.com/rustyeddy/fractal/market"
	"github.com/stretchr/testify/assert"
)

var xau = market.Symbols["XAUUSD"]

func TestUnrealizedPL(t *testing.T) {
	long := &Trade{Direction: market.Long, EntryPrice: 2000.00, Lots: 4.0}
	short := &Trade{Direction: market.Short, EntryPrice: 2000.00, Lots: 2.0}

	// 15 ticks in favor at 1.0/tick for 4 lots.
	assert.InDelta(t, 60.0, UnrealizedPL(long, 2000.15, xau), 1e-9)
	assert.InDelta(t, -40.0, UnrealizedPL(long, 1999.90, xau), 1e-9)

	assert.InDelta(t, 20.0, UnrealizedPL(short, 1999.90, xau), 1e-9)
	assert.InDelta(t, -30.0, UnrealizedPL(short, 2000.15, xau), 1e-9)

	assert.Equal(t, 0.0, UnrealizedPL(long, 2000.15, market.SymbolMeta{}), "zero tick size yields no P&L")
}

func TestProtectiveTriggers(t *testing.T) {
	long := &Trade{Direction: market.Long, StopLoss: 1999.90, TakeProfit: 2000.15}

	assert.False(t, hitStopLoss(long, 1999.91))
	assert.True(t, hitStopLoss(long, 1999.90))
	assert.True(t, hitStopLoss(long, 1999.80))

	assert.False(t, hitTakeProfit(long, 2000.14))
	assert.True(t, hitTakeProfit(long, 2000.15))

	short := &Trade{Direction: market.Short, StopLoss: 2000.10, TakeProfit: 1999.85}
	assert.True(t, hitStopLoss(short, 2000.10))
	assert.False(t, hitStopLoss(short, 2000.09))
	assert.True(t, hitTakeProfit(short, 1999.85))

	// Zero means no level set.
	bare := &Trade{Direction: market.Long}
	assert.False(t, hitStopLoss(bare, 0.01))
	assert.False(t, hitTakeProfit(bare, 1e9))
}

func TestLimitTouched(t *testing.T) {
	long := &Order{Direction: market.Long, Price: 2000.00}
	assert.False(t, limitTouched(long, market.Tick{Bid: 1999.99, Ask: 2000.01}))
	assert.True(t, limitTouched(long, market.Tick{Bid: 1999.98, Ask: 2000.00}))

	short := &Order{Direction: market.Short, Price: 2000.50}
	assert.False(t, limitTouched(short, market.Tick{Bid: 2000.49, Ask: 2000.51}))
	assert.True(t, limitTouched(short, market.Tick{Bid: 2000.50, Ask: 2000.52}))
}
