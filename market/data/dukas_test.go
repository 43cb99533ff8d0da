package data

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/fractal/market"
	"github.com/rustyeddy/fractal/replay"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTickURLUsesZeroBasedMonth(t *testing.T) {
	f := NewFetcher(1000)

	at := time.Date(2026, 3, 11, 14, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"https://datafeed.dukascopy.com/datafeed/XAUUSD/2026/02/11/14h_ticks.bi5",
		f.tickURL("XAUUSD", at))

	jan := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t,
		"https://datafeed.dukascopy.com/datafeed/EURUSD/2026/00/02/00h_ticks.bi5",
		f.tickURL("EURUSD", jan))
}

func TestAggregate(t *testing.T) {
	base := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	tf, err := market.ParseTimeframe("M1")
	require.NoError(t, err)

	ticks := []Tick{
		{Time: base.Add(5 * time.Second), Bid: 2000.10, Ask: 2000.12},
		{Time: base.Add(20 * time.Second), Bid: 2000.30, Ask: 2000.32},
		{Time: base.Add(50 * time.Second), Bid: 2000.05, Ask: 2000.07},
		{Time: base.Add(70 * time.Second), Bid: 2000.20, Ask: 2000.22},
		{Time: base.Add(80 * time.Second), Bid: 2000.25, Ask: 2000.27},
	}

	candles := Aggregate(ticks, tf)
	require.Len(t, candles, 2)

	first := candles[0]
	assert.Equal(t, base, first.Time)
	assert.Equal(t, 2000.10, first.Open)
	assert.Equal(t, 2000.30, first.High)
	assert.Equal(t, 2000.05, first.Low)
	assert.Equal(t, 2000.05, first.Close)
	assert.Equal(t, 3.0, first.Volume)

	second := candles[1]
	assert.Equal(t, base.Add(time.Minute), second.Time)
	assert.Equal(t, 2000.20, second.Open)
	assert.Equal(t, 2000.25, second.Close)
	assert.Equal(t, 2.0, second.Volume)
}

func TestAggregateEmpty(t *testing.T) {
	tf, _ := market.ParseTimeframe("M1")
	assert.Empty(t, Aggregate(nil, tf))
}

func TestWriteCandleCSVRoundTrip(t *testing.T) {
	base := time.Date(2026, 3, 11, 9, 0, 0, 0, time.UTC)
	candles := []market.Candle{
		{Time: base, Open: 2000.10, High: 2000.30, Low: 2000.05, Close: 2000.05, Volume: 3},
		{Time: base.Add(time.Minute), Open: 2000.20, High: 2000.25, Low: 2000.20, Close: 2000.25, Volume: 2},
	}

	path := filepath.Join(t.TempDir(), "candles.csv")
	require.NoError(t, WriteCandleCSV(path, candles))

	// The file must come back through the replay loader untouched.
	loaded, err := replay.LoadCandles(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.Equal(t, candles[0].Time, loaded[0].Time)
	assert.Equal(t, candles[0].Open, loaded[0].Open)
	assert.Equal(t, candles[1].Close, loaded[1].Close)
	assert.Equal(t, candles[1].Volume, loaded[1].Volume)
}
