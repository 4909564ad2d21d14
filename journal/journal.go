// Package journal persists backtest runs, trade logs and equity snapshots.
// The core never depends on it directly; the backtest runner records
// through the Journal interface and any implementation may back it.
package journal

import "time"

// RunRecord summarizes one completed backtest run.
type RunRecord struct {
	RunID     string
	Created   time.Time
	AccountID string
	Strategy  string
	Start     time.Time
	End       time.Time

	InitialCapital float64
	FinalEquity    float64
	TotalReturn    float64
	MaxDrawdown    float64
	SharpeRatio    float64
	WinRate        float64
	Trades         int
}

// TradeRecord is one fill in a run's trade log.
type TradeRecord struct {
	RunID      string
	PositionID string
	Time       time.Time
	Symbol     string
	Side       string
	Quantity   int
	Price      float64
	Commission float64
	PnL        float64
	Reason     string
}

// SnapshotRecord is one day of the equity curve.
type SnapshotRecord struct {
	RunID          string
	Date           time.Time
	Cash           float64
	PositionsValue float64
	TotalEquity    float64
	OpenPositions  int
}

type Journal interface {
	RecordRun(RunRecord) error
	RecordTrade(TradeRecord) error
	RecordSnapshot(SnapshotRecord) error
	Close() error
}

// Nop discards everything; used when a run doesn't need persistence.
type Nop struct{}

func (Nop) RecordRun(RunRecord) error           { return nil }
func (Nop) RecordTrade(TradeRecord) error       { return nil }
func (Nop) RecordSnapshot(SnapshotRecord) error { return nil }
func (Nop) Close() error                        { return nil }
