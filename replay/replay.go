// Package replay drives the strategy engine through a day of historical
// candles against the sim venue. Each bar is decomposed into a synthetic
// open/high/low/close tick path so intrabar touches of entry levels and
// protective stops resolve in a deterministic order.
package replay

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rustyeddy/fractal/market"
	"github.com/rustyeddy/fractal/sim"
	"github.com/rustyeddy/fractal/strategy"
)

// Options controls a replay run.
type Options struct {
	// Date filters the candle file to one calendar day (YYYY-MM-DD).
	// Empty replays the whole file.
	Date string

	// SpreadTicks is the synthetic spread applied around each candle
	// price when forming bid/ask quotes.
	SpreadTicks float64
}

// Result summarizes a finished run.
type Result struct {
	Trades     int
	Wins       int
	Losses     int
	GrossWin   float64
	GrossLoss  float64
	NetPL      float64
	EndBalance float64
}

// ProfitFactor returns gross win over gross loss; +Inf when lossless.
func (r Result) ProfitFactor() float64 {
	if r.GrossLoss <= 0 {
		if r.GrossWin > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return r.GrossWin / r.GrossLoss
}

// LoadCandles reads a candle CSV with header time,open,high,low,close and
// an optional volume column. Timestamps may be RFC3339 or
// "2006-01-02 15:04:05" (UTC).
func LoadCandles(path string) ([]market.Candle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	col := map[string]int{}
	for i, name := range header {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, need := range []string{"time", "open", "high", "low", "close"} {
		if _, ok := col[need]; !ok {
			return nil, fmt.Errorf("candle csv missing %q column", need)
		}
	}

	var out []market.Candle
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		c, err := parseCandle(row, col)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func parseCandle(row []string, col map[string]int) (market.Candle, error) {
	ts, err := parseTime(row[col["time"]])
	if err != nil {
		return market.Candle{}, err
	}
	c := market.Candle{Time: ts}
	for name, dst := range map[string]*float64{
		"open": &c.Open, "high": &c.High, "low": &c.Low, "close": &c.Close,
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col[name]]), 64)
		if err != nil {
			return market.Candle{}, fmt.Errorf("parse %s: %w", name, err)
		}
		*dst = v
	}
	if i, ok := col["volume"]; ok && i < len(row) {
		c.Volume, _ = strconv.ParseFloat(strings.TrimSpace(row[i]), 64)
	}
	return c, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse time %q: %w", s, err)
	}
	return t, nil
}

// Run replays candles through the engine. The venue must already be wired
// as the engine's venue/account/clock and the feed as its market feed.
func Run(ctx context.Context, eng *strategy.Engine, venue *sim.Venue, feed *sim.Feed,
	meta market.SymbolMeta, candles []market.Candle, opts Options) (Result, error) {

	if opts.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", opts.Date, time.UTC)
		if err != nil {
			return Result{}, fmt.Errorf("parse date: %w", err)
		}
		var filtered []market.Candle
		for _, c := range candles {
			if c.Time.UTC().Truncate(24 * time.Hour).Equal(day) {
				filtered = append(filtered, c)
			}
		}
		candles = filtered
	}
	if len(candles) == 0 {
		return Result{}, fmt.Errorf("no candles to replay")
	}

	half := opts.SpreadTicks * meta.TickSize / 2

	// Prime the venue with the first quote before Start so the engine
	// captures initial equity at a valid simulated time.
	first := candles[0]
	if err := venue.UpdateTick(quote(meta.Name, first.Time, first.Open, half)); err != nil {
		return Result{}, err
	}
	if err := eng.Start(ctx); err != nil {
		return Result{}, err
	}

	for _, c := range candles {
		for i, px := range tickPath(c) {
			at := c.Time.Add(time.Duration(i) * 10 * time.Second)
			if err := venue.UpdateTick(quote(meta.Name, at, px, half)); err != nil {
				return Result{}, err
			}
			if err := eng.OnTick(ctx); err != nil {
				return Result{}, err
			}
		}
		feed.AppendBar(c)
	}

	return summarize(venue), nil
}

// tickPath orders the intrabar path by candle color: an up bar visits the
// low before the high, a down bar the high before the low.
func tickPath(c market.Candle) [4]float64 {
	if c.Close >= c.Open {
		return [4]float64{c.Open, c.Low, c.High, c.Close}
	}
	return [4]float64{c.Open, c.High, c.Low, c.Close}
}

func quote(symbol string, at time.Time, px, half float64) market.Tick {
	return market.Tick{
		Symbol: symbol,
		Time:   at,
		Bid:    px - half,
		Ask:    px + half,
	}
}

func summarize(venue *sim.Venue) Result {
	res := Result{EndBalance: venue.Balance()}
	for _, tr := range venue.ClosedTrades() {
		res.Trades++
		res.NetPL += tr.RealizedPL
		if tr.RealizedPL > 0 {
			res.Wins++
			res.GrossWin += tr.RealizedPL
		} else if tr.RealizedPL < 0 {
			res.Losses++
			res.GrossLoss += -tr.RealizedPL
		}
	}
	return res
}
