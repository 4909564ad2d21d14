package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/backsim/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query backtest journal data",
	Long: `Query and display backtest records from a SQLite journal.

Examples:
  backsim journal runs
  backsim journal trades <run-id>
  backsim journal equity <run-id>`,
}

var journalRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded backtest runs",
	Args:  cobra.NoArgs,
	RunE:  runJournalRuns,
}

var journalTradesCmd = &cobra.Command{
	Use:   "trades <run-id>",
	Short: "List a run's trade log",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalTrades,
}

var journalEquityCmd = &cobra.Command{
	Use:   "equity <run-id>",
	Short: "List a run's daily equity curve",
	Args:  cobra.ExactArgs(1),
	RunE:  runJournalEquity,
}

var journalDBPath string

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalRunsCmd)
	journalCmd.AddCommand(journalTradesCmd)
	journalCmd.AddCommand(journalEquityCmd)

	journalCmd.PersistentFlags().StringVarP(&journalDBPath, "db", "d", "./backsim.sqlite", "path to SQLite journal DB")
}

func runJournalRuns(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	runs, err := j.ListRuns()
	if err != nil {
		return fmt.Errorf("query runs: %w", err)
	}

	for _, r := range runs {
		fmt.Printf("%s  %-12s  %s..%s  return %+.2f%%  trades %d\n",
			r.RunID, r.Strategy,
			r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"),
			r.TotalReturn*100, r.Trades)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
	}
	return nil
}

func runJournalTrades(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	trades, err := j.TradesByRun(args[0])
	if err != nil {
		return fmt.Errorf("query trades: %w", err)
	}

	for _, t := range trades {
		fmt.Printf("%s  %-4s %-6s  qty %-5d @ %.2f  comm %.2f  pnl %+.2f  %s\n",
			t.Time.Format("2006-01-02"), t.Side, t.Symbol,
			t.Quantity, t.Price, t.Commission, t.PnL, t.Reason)
	}
	if len(trades) == 0 {
		fmt.Println("no trades for run", args[0])
	}
	return nil
}

func runJournalEquity(cmd *cobra.Command, args []string) error {
	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	snaps, err := j.SnapshotsByRun(args[0])
	if err != nil {
		return fmt.Errorf("query snapshots: %w", err)
	}

	for _, s := range snaps {
		fmt.Printf("%s  cash %12.2f  positions %12.2f  equity %12.2f  open %d\n",
			s.Date.Format("2006-01-02"), s.Cash, s.PositionsValue, s.TotalEquity, s.OpenPositions)
	}
	if len(snaps) == 0 {
		fmt.Println("no snapshots for run", args[0])
	}
	return nil
}
