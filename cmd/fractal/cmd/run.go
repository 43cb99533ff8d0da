package cmd

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rustyeddy/fractal/config"
	"github.com/rustyeddy/fractal/journal"
	"github.com/rustyeddy/fractal/market"
	"github.com/rustyeddy/fractal/replay"
	"github.com/rustyeddy/fractal/sim"
	"github.com/rustyeddy/fractal/strategy"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Replay a candle file through the strategy engine",
	Long: `Run the strategy engine over a day of historical candles against the
in-process simulated venue, journaling every trade and equity change.

Example:
  fractal run --config strategy.yaml --csv xauusd_m1.csv --date 2026-03-11`,
	RunE: runRun,
}

var (
	runConfigPath  string
	runCSVPath     string
	runDate        string
	runBalance     float64
	runSpreadTicks float64
	runExpiryBars  int
	runSeed        int64
	runVerbose     bool
	runMetricsAddr string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.Flags().StringVar(&runCSVPath, "csv", "", "candle CSV file (time,open,high,low,close) (required)")
	runCmd.Flags().StringVar(&runDate, "date", "", "replay a single day (YYYY-MM-DD)")
	runCmd.Flags().Float64Var(&runBalance, "balance", 100000, "starting account balance")
	runCmd.Flags().Float64Var(&runSpreadTicks, "spread", 2, "synthetic spread in ticks")
	runCmd.Flags().IntVar(&runExpiryBars, "expiry-bars", 120, "bars a resting order survives (0 = GTC)")
	runCmd.Flags().Int64Var(&runSeed, "seed", 7, "seed for the sizing random source")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "print entries and exits")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9100)")
	runCmd.MarkFlagRequired("config")
	runCmd.MarkFlagRequired("csv")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	meta := market.Symbols[cfg.Symbol]

	j, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("create journal: %w", err)
	}
	defer j.Close()

	if runMetricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(runMetricsAddr, mux); err != nil {
				fmt.Printf("metrics server: %v\n", err)
			}
		}()
	}

	venue := sim.NewVenue(meta, runBalance, j)
	venue.ExpiryBars = runExpiryBars
	feed := sim.NewFeed(venue)

	eng, err := strategy.NewEngine(cfg, strategy.Deps{
		Feed:    feed,
		Venue:   venue,
		Account: venue,
		Clock:   venue,
		Rand:    rand.New(rand.NewSource(runSeed)),
	})
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	eng.Verbose = runVerbose
	venue.SetPositionClosedHandler(eng)

	candles, err := replay.LoadCandles(runCSVPath)
	if err != nil {
		return fmt.Errorf("load candles: %w", err)
	}

	fmt.Printf("Replaying %s %s (%d candles) balance=%.2f\n", cfg.Symbol, cfg.Timeframe, len(candles), runBalance)

	res, err := replay.Run(context.Background(), eng, venue, feed, meta, candles, replay.Options{
		Date:        runDate,
		SpreadTicks: runSpreadTicks,
	})
	if err != nil {
		return fmt.Errorf("replay: %w", err)
	}

	fmt.Printf("\nTrades: %d, Wins: %d, Losses: %d, PF: %.3f, Net: %.2f\n",
		res.Trades, res.Wins, res.Losses, res.ProfitFactor(), res.NetPL)
	fmt.Printf("End balance: %.2f\n", res.EndBalance)
	if eng.Guard().HardStopped() {
		fmt.Println("Session halted by overall drawdown breaker.")
	}
	return nil
}

func openJournal(jc config.JournalConfig) (journal.Journal, error) {
	switch jc.Type {
	case "csv":
		return journal.NewCSV(jc.TradesFile, jc.EquityFile)
	case "sqlite":
		return journal.NewSQLite(jc.DBPath)
	default:
		return journal.Discard{}, nil
	}
}
