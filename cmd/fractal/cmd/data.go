package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rustyeddy/fractal/market"
	"github.com/rustyeddy/fractal/market/data"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Download tick data and build a candle CSV",
	Long: `Download Dukascopy tick hours for a symbol, aggregate them into
candles and write the CSV the run command replays.

Example:
  fractal data --symbol XAUUSD --start 2026-03-11T00 --end 2026-03-12T00 --out xauusd_m1.csv`,
	RunE: runData,
}

var (
	dataSymbol    string
	dataStart     string
	dataEnd       string
	dataTimeframe string
	dataScale     float64
	dataOut       string
	dataWorkers   int
)

func init() {
	rootCmd.AddCommand(dataCmd)

	dataCmd.Flags().StringVar(&dataSymbol, "symbol", "XAUUSD", "symbol, e.g. XAUUSD or EURUSD")
	dataCmd.Flags().StringVar(&dataStart, "start", "", "start hour (UTC) like 2026-03-11T00 (required)")
	dataCmd.Flags().StringVar(&dataEnd, "end", "", "end hour (UTC, exclusive) like 2026-03-12T00 (required)")
	dataCmd.Flags().StringVar(&dataTimeframe, "timeframe", "M1", "candle timeframe")
	dataCmd.Flags().Float64Var(&dataScale, "scale", 1000, "price scale of the feed (1e5 for FX pairs, 1e3 for XAUUSD)")
	dataCmd.Flags().StringVar(&dataOut, "out", "candles.csv", "output CSV path")
	dataCmd.Flags().IntVar(&dataWorkers, "workers", 4, "parallel download workers")
	dataCmd.MarkFlagRequired("start")
	dataCmd.MarkFlagRequired("end")
}

func runData(cmd *cobra.Command, args []string) error {
	start, err := time.ParseInLocation("2006-01-02T15", dataStart, time.UTC)
	if err != nil {
		return fmt.Errorf("bad --start: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02T15", dataEnd, time.UTC)
	if err != nil {
		return fmt.Errorf("bad --end: %w", err)
	}
	tf, err := market.ParseTimeframe(dataTimeframe)
	if err != nil {
		return err
	}

	fetcher := data.NewFetcher(dataScale)
	fetcher.Workers = dataWorkers

	fmt.Printf("Fetching %s %s -> %s\n", dataSymbol, start.Format(time.RFC3339), end.Format(time.RFC3339))
	ticks, err := fetcher.FetchHours(context.Background(), dataSymbol, start, end)
	if err != nil {
		return fmt.Errorf("fetch: %w", err)
	}
	if len(ticks) == 0 {
		return fmt.Errorf("no ticks returned (weekend or unknown symbol?)")
	}

	candles := data.Aggregate(ticks, tf)
	if err := data.WriteCandleCSV(dataOut, candles); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Printf("Wrote %d %s candles from %d ticks to %s\n", len(candles), tf, len(ticks), dataOut)
	return nil
}
