package cmd

import (
	"github.com/rustyeddy/fractal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fractal",
	Short: "A swing-extreme intraday strategy engine",
	Long: `Fractal is an automated intraday trading strategy engine.

It reacts to tick and bar events, opens positions at confirmed swing
extremes sized by a cash-risk target, and manages them with break-even
arming, stepped trailing stops, an aggregate basket take-profit and a
daily/overall drawdown circuit breaker.

Tools provided:
  - Replaying historical candle days through the engine
  - Downloading tick data and building candle files
  - Managing strategy configuration files
  - Trade and equity journaling (CSV or SQLite)`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	config.LoadDotenv()
	return rootCmd.Execute()
}
