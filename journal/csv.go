package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSVJournal writes the trade log and equity curve as flat CSV files.
// Run summaries have no natural home in either file and are dropped.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := tw.Write([]string{"run_id", "position_id", "time", "symbol", "side", "quantity", "price", "commission", "pnl", "reason"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "date", "cash", "positions_value", "total_equity", "open_positions"}); err != nil {
		return nil, err
	}

	tw.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	ew.Flush()
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{tw, ew, tf, ef}, nil
}

func (j *CSVJournal) RecordRun(RunRecord) error { return nil }

func (j *CSVJournal) RecordTrade(t TradeRecord) error {
	err := j.trades.Write([]string{
		t.RunID,
		t.PositionID,
		t.Time.Format(time.RFC3339),
		t.Symbol,
		t.Side,
		strconv.Itoa(t.Quantity),
		f(t.Price),
		f(t.Commission),
		f(t.PnL),
		t.Reason,
	})
	if err != nil {
		return err
	}

	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordSnapshot(s SnapshotRecord) error {
	err := j.equity.Write([]string{
		s.RunID,
		s.Date.Format("2006-01-02"),
		f(s.Cash),
		f(s.PositionsValue),
		f(s.TotalEquity),
		strconv.Itoa(s.OpenPositions),
	})
	if err != nil {
		return err
	}

	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}

	if err := j.tf.Close(); err != nil {
		return err
	}
	if err := j.ef.Close(); err != nil {
		return err
	}
	return nil
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
