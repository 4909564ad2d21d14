// Package sim contains the order execution coordinator: the state machine
// that turns an order into an all-or-nothing mutation of the ledger and the
// position book.
package sim

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/rustyeddy/backsim/book"
	"github.com/rustyeddy/backsim/ledger"
	"github.com/rustyeddy/backsim/market"
	"github.com/rustyeddy/backsim/risk"
)

// Engine executes orders against the ledger and position book. It is
// strictly sequential per order; no partial mutation is ever observable.
type Engine struct {
	ledger ledger.Store
	book   book.Book
	oracle market.Oracle
	policy risk.Policy
	comm   CommissionModel
	logger *zap.Logger
}

// NewEngine wires the coordinator. A nil commission model falls back to the
// flat reference fee, a nil logger to a no-op logger.
func NewEngine(st ledger.Store, bk book.Book, o market.Oracle, pol risk.Policy, cm CommissionModel, logger *zap.Logger) *Engine {
	if cm == nil {
		cm = FlatCommission{Fee: DefaultFlatFee}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		ledger: st,
		book:   bk,
		oracle: o,
		policy: pol,
		comm:   cm,
		logger: logger,
	}
}

// ExecuteOrder runs the per-order state machine:
//
//  1. load account
//  2. validate (no mutation on rejection)
//  3. resolve execution price from the oracle at the order's time
//  4. compute commission
//  5. buy: reserve cost, then open position (release on failure)
//     sell: match first open position, close it, post net proceeds
//
// Business failures come back inside the OrderResult. The only error this
// method returns is a temporal violation, which signals lookahead bias and
// must abort the whole run; any other unexpected fault (including a panic
// in a collaborator) is contained here as a failed result so one bad order
// never crashes the backtest loop.
func (e *Engine) ExecuteOrder(ord Order) (res OrderResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("order execution panic",
				zap.String("symbol", ord.Symbol),
				zap.Any("panic", r))
			res = OrderResult{Err: fmt.Sprintf("internal error: %v", r)}
			err = nil
		}
	}()

	acct, gerr := e.ledger.Get(ord.AccountID)
	if gerr != nil {
		return e.reject(ord, gerr.Error()), nil
	}

	// The quote used for validation and the fill price are the same bar;
	// execution happens moments later in simulated time.
	bar, perr := e.oracle.PriceAt(ord.Symbol, ord.Time)
	if perr != nil {
		if errors.Is(perr, market.ErrTemporalViolation) {
			return OrderResult{}, perr
		}
		return e.reject(ord, perr.Error()), nil
	}
	price := bar.Close
	commission := e.comm.Commission(price, ord.Quantity)

	decision := risk.Validate(e.policy, risk.Intent{
		AccountID:     ord.AccountID,
		Symbol:        ord.Symbol,
		Buy:           ord.Side == Buy,
		Quantity:      ord.Quantity,
		RefPrice:      price,
		EstCommission: commission,
	}, acct)
	if !decision.Allowed {
		return e.reject(ord, "validation failed: "+decision.Reason()), nil
	}

	if ord.Side == Buy {
		return e.executeBuy(ord, price, commission), nil
	}
	return e.executeSell(ord, price, commission), nil
}

func (e *Engine) executeBuy(ord Order, price, commission float64) OrderResult {
	cost := price*float64(ord.Quantity) + commission

	if err := e.ledger.Reserve(ord.AccountID, cost); err != nil {
		return e.reject(ord, err.Error())
	}

	pos, err := e.book.Open(ord.AccountID, ord.Symbol, price, ord.Quantity, ord.Time, ord.Stop)
	if err != nil {
		// Reservation and open succeed or fail together.
		if rerr := e.ledger.Release(ord.AccountID, cost); rerr != nil {
			e.logger.Error("release after failed open",
				zap.String("account", ord.AccountID), zap.Error(rerr))
		}
		return e.reject(ord, err.Error())
	}

	e.logger.Debug("buy filled",
		zap.String("symbol", ord.Symbol),
		zap.String("position", pos.ID),
		zap.Int("quantity", ord.Quantity),
		zap.Float64("price", price))

	return OrderResult{
		OK:         true,
		PositionID: pos.ID,
		Price:      price,
		Commission: commission,
		Quantity:   ord.Quantity,
	}
}

func (e *Engine) executeSell(ord Order, price, commission float64) OrderResult {
	// First open position for the symbol in insertion order (FIFO).
	var target *book.Position
	for _, p := range e.book.OpenPositions(ord.AccountID) {
		if p.Symbol == ord.Symbol {
			p := p
			target = &p
			break
		}
	}
	if target == nil {
		return e.reject(ord, fmt.Sprintf("no open position for %q", ord.Symbol))
	}
	if ord.Quantity > target.Quantity {
		return e.reject(ord, fmt.Sprintf("insufficient quantity: want %d, position %s holds %d",
			ord.Quantity, target.ID, target.Quantity))
	}

	reason := ord.Reason
	if reason == "" {
		reason = "signal"
	}

	closed, err := e.book.Close(target.ID, price, ord.Time, reason)
	if err != nil {
		return e.reject(ord, err.Error())
	}

	// Net proceeds hit the ledger; the reported P&L is net of commission
	// too, so cash and the trade log stay consistent.
	proceeds := price*float64(closed.Quantity) - commission
	if err := e.ledger.ApplyPnL(ord.AccountID, proceeds); err != nil {
		return e.reject(ord, err.Error())
	}

	netPL := closed.RealizedPL - commission

	e.logger.Debug("sell filled",
		zap.String("symbol", ord.Symbol),
		zap.String("position", closed.ID),
		zap.Int("quantity", closed.Quantity),
		zap.Float64("price", price),
		zap.Float64("netPL", netPL),
		zap.String("reason", reason))

	return OrderResult{
		OK:         true,
		PositionID: closed.ID,
		Price:      price,
		Commission: commission,
		Quantity:   closed.Quantity,
		RealizedPL: netPL,
	}
}

func (e *Engine) reject(ord Order, msg string) OrderResult {
	e.logger.Debug("order rejected",
		zap.String("symbol", ord.Symbol),
		zap.String("side", ord.Side.String()),
		zap.Int("quantity", ord.Quantity),
		zap.String("reason", msg))
	return OrderResult{Err: msg}
}
