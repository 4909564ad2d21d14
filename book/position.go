package book

import "time"

// Status of a position. Transitions are Open -> Closed only.
type Status int8

const (
	Open Status = iota
	Closed
)

func (s Status) String() string {
	if s == Closed {
		return "closed"
	}
	return "open"
}

// StopKind tags the stop-loss variant attached to a position.
type StopKind int8

const (
	StopNone StopKind = iota
	StopPrice
	StopDays
	StopTrailing // defined but inert, reserved for a future design
)

// StopLoss is a tagged variant: only the field matching Kind is meaningful.
//
//	StopNone     - no stop
//	StopPrice    - exit when price <= Threshold
//	StopDays     - exit after Days whole days held
//	StopTrailing - reserved, never triggers
type StopLoss struct {
	Kind      StopKind
	Threshold float64
	Days      int
	TrailPct  float64
}

// Position is one holding of a symbol. Exit fields are only meaningful once
// Status is Closed, and a closed position never changes again.
type Position struct {
	ID         string
	AccountID  string
	Symbol     string
	EntryTime  time.Time
	EntryPrice float64
	Quantity   int
	Stop       StopLoss
	Status     Status

	ExitTime   time.Time
	ExitPrice  float64
	ExitReason string
	RealizedPL float64
}

// UnrealizedPL is the mark-to-market gain on an open position; zero for
// anything not open.
func UnrealizedPL(p Position, currentPrice float64) float64 {
	if p.Status != Open {
		return 0
	}
	return (currentPrice - p.EntryPrice) * float64(p.Quantity)
}

// MarketValue is the current worth of an open position; zero once closed.
func MarketValue(p Position, currentPrice float64) float64 {
	if p.Status != Open {
		return 0
	}
	return currentPrice * float64(p.Quantity)
}
