// Package data downloads historical tick hours from the Dukascopy datafeed
// and aggregates them into candle CSV files the replay harness consumes.
//
// Each remote .bi5 file is an LZMA stream of 20-byte big-endian tick
// records for one hour: millisecond offset, ask, bid (both in scaled
// points), then ask/bid volumes as float32.
package data

import (
	"context"
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rustyeddy/fractal/market"
	"github.com/ulikunitz/xz/lzma"
)

const DefaultBaseURL = "https://datafeed.dukascopy.com/datafeed"

// Fetcher downloads and decodes Dukascopy tick hours.
type Fetcher struct {
	BaseURL string
	Client  *http.Client

	// PriceScale divides the raw integer prices into quote prices
	// (1e5 for most FX pairs, 1e3 for XAUUSD).
	PriceScale float64

	// Workers bounds parallel downloads; Sleep is the polite delay per
	// request.
	Workers int
	Sleep   time.Duration
}

func NewFetcher(priceScale float64) *Fetcher {
	return &Fetcher{
		BaseURL:    DefaultBaseURL,
		Client:     &http.Client{Timeout: 45 * time.Second},
		PriceScale: priceScale,
		Workers:    4,
		Sleep:      50 * time.Millisecond,
	}
}

// Tick is one decoded Dukascopy tick.
type Tick struct {
	Time time.Time
	Bid  float64
	Ask  float64
}

// FetchHours downloads [start, end) hour files for symbol and returns the
// decoded ticks in time order. Missing hours (404, e.g. weekends) are
// skipped silently.
func (f *Fetcher) FetchHours(ctx context.Context, symbol string, start, end time.Time) ([]Tick, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("end must be after start")
	}
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	var hours []time.Time
	for t := start.Truncate(time.Hour); t.Before(end); t = t.Add(time.Hour) {
		hours = append(hours, t)
	}

	type result struct {
		hour  time.Time
		ticks []Tick
		err   error
	}

	jobCh := make(chan time.Time)
	resCh := make(chan result, len(hours))
	var wg sync.WaitGroup

	workers := f.Workers
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for hour := range jobCh {
				time.Sleep(f.Sleep)
				ticks, err := f.fetchHour(ctx, symbol, hour)
				resCh <- result{hour: hour, ticks: ticks, err: err}
			}
		}()
	}

	go func() {
		for _, h := range hours {
			jobCh <- h
		}
		close(jobCh)
		wg.Wait()
		close(resCh)
	}()

	var all []Tick
	for r := range resCh {
		if r.err != nil {
			return nil, fmt.Errorf("hour %s: %w", r.hour.Format("2006-01-02T15"), r.err)
		}
		all = append(all, r.ticks...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Time.Before(all[j].Time) })
	return all, nil
}

func (f *Fetcher) fetchHour(ctx context.Context, symbol string, hour time.Time) ([]Tick, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", f.tickURL(symbol, hour), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "fractal-data/1.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil // no data for this hour
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("http status %d", resp.StatusCode)
	}

	return f.decodeBI5(resp.Body, hour)
}

func (f *Fetcher) tickURL(symbol string, t time.Time) string {
	// Dukascopy uses zero-based month in URL path: Jan=00 ... Dec=11
	month0 := int(t.Month()) - 1
	return fmt.Sprintf("%s/%s/%04d/%02d/%02d/%02dh_ticks.bi5",
		strings.TrimRight(f.BaseURL, "/"),
		symbol,
		t.Year(), month0, t.Day(), t.Hour())
}

func (f *Fetcher) decodeBI5(src io.Reader, hour time.Time) ([]Tick, error) {
	r, err := lzma.NewReader(src)
	if err != nil {
		return nil, err
	}

	var out []Tick
	rec := make([]byte, 20)
	for {
		if _, err := io.ReadFull(r, rec); err != nil {
			if err == io.EOF {
				return out, nil
			}
			if err == io.ErrUnexpectedEOF {
				return nil, fmt.Errorf("truncated tick record")
			}
			return nil, err
		}
		ms := binary.BigEndian.Uint32(rec[0:4])
		ask := binary.BigEndian.Uint32(rec[4:8])
		bid := binary.BigEndian.Uint32(rec[8:12])
		out = append(out, Tick{
			Time: hour.Add(time.Duration(ms) * time.Millisecond),
			Bid:  float64(bid) / f.PriceScale,
			Ask:  float64(ask) / f.PriceScale,
		})
	}
}

// Aggregate buckets ticks into candles of the given timeframe on the bid
// price, matching how most charting feeds build bars.
func Aggregate(ticks []Tick, tf market.Timeframe) []market.Candle {
	var out []market.Candle
	var cur *market.Candle
	for _, t := range ticks {
		open := tf.Truncate(t.Time)
		if cur == nil || !cur.Time.Equal(open) {
			if cur != nil {
				out = append(out, *cur)
			}
			cur = &market.Candle{
				Time: open,
				Open: t.Bid, High: t.Bid, Low: t.Bid, Close: t.Bid,
			}
		}
		cur.High = math.Max(cur.High, t.Bid)
		cur.Low = math.Min(cur.Low, t.Bid)
		cur.Close = t.Bid
		cur.Volume++
	}
	if cur != nil {
		out = append(out, *cur)
	}
	return out
}

// WriteCandleCSV writes candles in the replay input format.
func WriteCandleCSV(path string, candles []market.Candle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)

	if err := w.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		f.Close()
		return err
	}
	for _, c := range candles {
		err := w.Write([]string{
			c.Time.UTC().Format(time.RFC3339),
			fmtPrice(c.Open), fmtPrice(c.High), fmtPrice(c.Low), fmtPrice(c.Close),
			strconv.FormatFloat(c.Volume, 'f', 0, 64),
		})
		if err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtPrice(x float64) string {
	return strconv.FormatFloat(x, 'f', -1, 64)
}
