package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:   "backsim",
	Short: "A historical backtesting engine for daily-bar trading strategies",
	Long: `Backsim replays historical market data day by day against a trading
strategy, with strict lookahead-bias protection: a strategy can never see
a price from the future.

It provides tools for:
  - Running backtests from a YAML or JSON configuration
  - Pluggable strategies (moving-average crossover, noop baseline)
  - Stop-loss rules (price threshold, maximum holding period)
  - Risk-checked order execution with all-or-nothing accounting
  - Trade journals and daily equity curves (CSV or SQLite)`,
}

var verbose bool

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// newLogger builds the process logger; debug level when --verbose is set.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.DisableCaller = true
	return cfg.Build()
}
