package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, account_id, strategy, start_date, end_date,
		 initial_capital, final_equity, total_return, max_drawdown,
		 sharpe_ratio, win_rate, trades)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.AccountID, r.Strategy, r.Start, r.End,
		r.InitialCapital, r.FinalEquity, r.TotalReturn, r.MaxDrawdown,
		r.SharpeRatio, r.WinRate, r.Trades,
	)
	return err
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(run_id, position_id, time, symbol, side, quantity, price, commission, pnl, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.RunID, t.PositionID, t.Time, t.Symbol, t.Side,
		t.Quantity, t.Price, t.Commission, t.PnL, t.Reason,
	)
	return err
}

func (j *SQLite) RecordSnapshot(s SnapshotRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO snapshots
		(run_id, date, cash, positions_value, total_equity, open_positions)
		VALUES (?, ?, ?, ?, ?, ?)`,
		s.RunID, s.Date, s.Cash, s.PositionsValue, s.TotalEquity, s.OpenPositions,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
