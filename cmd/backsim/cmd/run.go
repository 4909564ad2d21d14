package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backsim/backtest"
	"github.com/rustyeddy/backsim/book"
	"github.com/rustyeddy/backsim/config"
	"github.com/rustyeddy/backsim/journal"
	"github.com/rustyeddy/backsim/ledger"
	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/market/data"
	"github.com/rustyeddy/backsim/risk"
	"github.com/rustyeddy/backsim/sim"
	"github.com/rustyeddy/backsim/strategies"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a backtest from a configuration file",
	Long: `Run loads bar data, seeds the simulated account, and replays the
configured date range day by day against the chosen strategy.

Example:
  backsim run -c backtest.yaml
  backsim run -c backtest.yaml -o result.json`,
	RunE: runBacktest,
}

var (
	runConfigPath string
	runOutputPath string
)

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to backtest config (YAML or JSON) (required)")
	runCmd.Flags().StringVarP(&runOutputPath, "output", "o", "", "write the full result as JSON to this path")

	runCmd.MarkFlagRequired("config")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return err
	}

	logger, err := newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync()

	bars, err := data.LoadBarFiles(cfg.Backtest.BarFiles)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	start, _ := cfg.StartTime()
	end, _ := cfg.EndTime()

	strat, err := strategies.StrategyByName(cfg.Strategy.Type, cfg.Params())
	if err != nil {
		return err
	}

	jnl, err := openJournal(cfg.Journal)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jnl.Close()

	store := ledger.NewMemStore()
	store.Put(ledger.Account{
		ID:             cfg.Account.ID,
		Cash:           cfg.Account.InitialCapital,
		InitialCapital: cfg.Account.InitialCapital,
		Active:         true,
	})

	bk := book.NewMemBook()

	// Clock starts far enough back for the warmup lookback window.
	oracle := market.NewHistoricalOracle(bars, market.Day(start).AddDate(0, 0, -101))
	engine := sim.NewEngine(store, bk, oracle, risk.DefaultPolicy(),
		sim.FlatCommission{Fee: cfg.Backtest.Commission}, logger)

	runner := &backtest.Runner{
		Engine:  engine,
		Oracle:  oracle,
		Ledger:  store,
		Book:    bk,
		Journal: jnl,
		Logger:  logger,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := runner.Run(ctx, backtest.Config{
		AccountID: cfg.Account.ID,
		Start:     start,
		End:       end,
		Symbols:   cfg.Backtest.Symbols,
		Strategy:  strat,
	})
	if err != nil {
		return err
	}

	printResult(res)

	if runOutputPath != "" {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(runOutputPath, out, 0644); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		fmt.Printf("\nFull result written to %s\n", runOutputPath)
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
		return journal.Nop{}, nil
	}
}

func printResult(res backtest.Result) {
	fmt.Printf("Backtest Complete!  (run %s)\n", res.RunID)
	fmt.Printf("  Strategy:        %s\n", res.Strategy)
	fmt.Printf("  Period:          %s .. %s\n",
		res.StartDate.Format("2006-01-02"), res.EndDate.Format("2006-01-02"))
	fmt.Printf("  Initial Capital: $%.2f\n", res.InitialCapital)
	fmt.Printf("  Final Equity:    $%.2f\n", res.FinalEquity)
	fmt.Printf("  Total Return:    %.2f%%\n", res.TotalReturn*100)
	fmt.Printf("  Max Drawdown:    %.2f%%\n", res.MaxDrawdown*100)
	fmt.Printf("  Sharpe Ratio:    %.2f\n", res.SharpeRatio)
	fmt.Printf("  Win Rate:        %.2f%%\n", res.WinRate*100)
	fmt.Printf("  Trades:          %d\n", res.TotalTrades)
}
