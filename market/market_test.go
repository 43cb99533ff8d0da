package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickSpread(t *testing.T) {
	tick := Tick{Bid: 2000.00, Ask: 2000.03}

	assert.InDelta(t, 0.03, tick.Spread(), 1e-9)
	assert.InDelta(t, 2000.015, tick.Mid(), 1e-9)
	assert.InDelta(t, 3.0, tick.SpreadTicks(0.01), 1e-9)
	assert.Equal(t, 0.0, tick.SpreadTicks(0), "non-positive tick size yields zero")
}

func TestCandleRangeTicks(t *testing.T) {
	tests := []struct {
		name     string
		candle   Candle
		tickSize float64
		want     int
	}{
		{"normal bar", Candle{High: 2000.25, Low: 2000.00}, 0.01, 25},
		{"rounds to nearest tick", Candle{High: 1.00009, Low: 1.00000}, 0.0001, 1},
		{"zero high fails closed", Candle{High: 0, Low: 2000.00}, 0.01, -1},
		{"zero low fails closed", Candle{High: 2000.25, Low: 0}, 0.01, -1},
		{"bad tick size fails closed", Candle{High: 2000.25, Low: 2000.00}, 0, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.candle.RangeTicks(tt.tickSize))
		})
	}
}

func TestDirection(t *testing.T) {
	assert.Equal(t, 1.0, Long.Sign())
	assert.Equal(t, -1.0, Short.Sign())
	assert.Equal(t, "LONG", Long.String())
	assert.Equal(t, "SHORT", Short.String())
	assert.Equal(t, Short, Long.Opposite())
	assert.Equal(t, Long, Short.Opposite())
}

func TestParseTimeframe(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"M1", time.Minute, false},
		{"M15", 15 * time.Minute, false},
		{"H1", time.Hour, false},
		{"D1", 24 * time.Hour, false},
		{"M2", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			tf, err := ParseTimeframe(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tf.Duration())
			assert.Equal(t, tt.in, tf.String())
		})
	}
}

func TestTimeframeTruncate(t *testing.T) {
	tf, err := ParseTimeframe("M5")
	require.NoError(t, err)

	at := time.Date(2026, 3, 11, 14, 33, 42, 0, time.UTC)
	assert.Equal(t, time.Date(2026, 3, 11, 14, 30, 0, 0, time.UTC), tf.Truncate(at))
}

func TestSymbolsTable(t *testing.T) {
	meta, ok := Symbols["XAUUSD"]
	require.True(t, ok)
	assert.Equal(t, 0.01, meta.TickSize)
	assert.Equal(t, 1.0, meta.TickValue)
	assert.Equal(t, 50.0, meta.VolumeMax)
}
