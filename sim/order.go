package sim

import (
	"encoding/json"
	"time"

	"github.com/rustyeddy/backsim/book"
)

// Side of an order: +1 buy, -1 sell.
type Side int8

const (
	Buy  Side = +1
	Sell Side = -1
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

func (s Side) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Side) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}
	if str == "SELL" {
		*s = Sell
	} else {
		*s = Buy
	}
	return nil
}

// Order is one trade instruction submitted to the coordinator.
type Order struct {
	AccountID string
	Symbol    string
	Side      Side
	Quantity  int
	Time      time.Time

	// Stop applies to buys: the stop-loss config attached to the opened
	// position.
	Stop book.StopLoss

	// Reason applies to sells: why the exit happened ("signal", stop-loss
	// trigger text, "end of run").
	Reason string
}

// OrderResult reports a fill or a failure. Failures are expected business
// outcomes (insufficient funds, no open position, validation); they are
// never Go errors.
type OrderResult struct {
	OK         bool
	PositionID string
	Price      float64
	Commission float64

	// Quantity actually filled. A sell always closes the whole matched
	// position, so this can exceed the requested quantity.
	Quantity int

	// RealizedPL is set on sells: position P&L net of the sell commission.
	RealizedPL float64

	// Err carries the failure text when OK is false.
	Err string
}

// Trade is one immutable entry in the trade log.
type Trade struct {
	Time       time.Time `json:"timestamp"`
	Symbol     string    `json:"symbol"`
	Side       Side      `json:"side"`
	Quantity   int       `json:"quantity"`
	Price      float64   `json:"price"`
	Commission float64   `json:"commission"`
	PositionID string    `json:"positionId"`
	ExitReason string    `json:"exitReason,omitempty"`
	PnL        float64   `json:"pnl"`
}

// CommissionModel prices the commission for a fill. The reference model is
// a flat per-order fee.
type CommissionModel interface {
	Commission(price float64, quantity int) float64
}

// FlatCommission charges the same fee on every order.
type FlatCommission struct {
	Fee float64
}

func (f FlatCommission) Commission(float64, int) float64 {
	return f.Fee
}

// DefaultFlatFee is the reference per-order commission.
const DefaultFlatFee = 5.0
