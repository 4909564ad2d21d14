package journal

import (
	"database/sql"
	"fmt"
)

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, created, account_id, strategy, start_date, end_date,
		       initial_capital, final_equity, total_return, max_drawdown,
		       sharpe_ratio, win_rate, trades
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.AccountID,
		&rec.Strategy,
		&rec.Start,
		&rec.End,
		&rec.InitialCapital,
		&rec.FinalEquity,
		&rec.TotalReturn,
		&rec.MaxDrawdown,
		&rec.SharpeRatio,
		&rec.WinRate,
		&rec.Trades,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns all run summaries, most recent first.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, account_id, strategy, start_date, end_date,
		       initial_capital, final_equity, total_return, max_drawdown,
		       sharpe_ratio, win_rate, trades
		FROM runs
		ORDER BY created DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Created,
			&rec.AccountID,
			&rec.Strategy,
			&rec.Start,
			&rec.End,
			&rec.InitialCapital,
			&rec.FinalEquity,
			&rec.TotalReturn,
			&rec.MaxDrawdown,
			&rec.SharpeRatio,
			&rec.WinRate,
			&rec.Trades,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// TradesByRun returns a run's trade log in fill order.
func (j *SQLite) TradesByRun(runID string) ([]TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, position_id, time, symbol, side, quantity, price, commission, pnl, reason
		FROM trades
		WHERE run_id = ?
		ORDER BY time ASC, rowid ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var rec TradeRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.PositionID,
			&rec.Time,
			&rec.Symbol,
			&rec.Side,
			&rec.Quantity,
			&rec.Price,
			&rec.Commission,
			&rec.PnL,
			&rec.Reason,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SnapshotsByRun returns a run's daily equity curve in date order.
func (j *SQLite) SnapshotsByRun(runID string) ([]SnapshotRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, date, cash, positions_value, total_equity, open_positions
		FROM snapshots
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []SnapshotRecord
	for rows.Next() {
		var rec SnapshotRecord
		if err := rows.Scan(
			&rec.RunID,
			&rec.Date,
			&rec.Cash,
			&rec.PositionsValue,
			&rec.TotalEquity,
			&rec.OpenPositions,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
