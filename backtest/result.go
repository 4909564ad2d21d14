package backtest

import (
	"time"

	"github.com/rustyeddy/backsim/sim"
)

// DailySnapshot is one point on the equity curve, taken after all of a
// day's fills have settled.
type DailySnapshot struct {
	Date           time.Time `json:"date"`
	Cash           float64   `json:"cash"`
	PositionsValue float64   `json:"positionsValue"`
	TotalEquity    float64   `json:"totalEquity"`
	OpenPositions  int       `json:"openPositions"`
}

// Result is the full output of a backtest run.
type Result struct {
	RunID     string    `json:"runId"`
	AccountID string    `json:"accountId"`
	Strategy  string    `json:"strategy"`
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`

	InitialCapital float64 `json:"initialCapital"`
	FinalEquity    float64 `json:"finalEquity"`
	TotalReturn    float64 `json:"totalReturn"`
	MaxDrawdown    float64 `json:"maxDrawdown"`
	SharpeRatio    float64 `json:"sharpeRatio"`
	WinRate        float64 `json:"winRate"`
	TotalTrades    int     `json:"totalTrades"`

	Trades         []sim.Trade     `json:"trades"`
	DailySnapshots []DailySnapshot `json:"dailySnapshots"`
}
