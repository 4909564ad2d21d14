// Package book tracks open and closed positions for trading accounts.
package book

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound means the position id is unknown or the position is already
// closed; the two are indistinguishable to callers by design.
var ErrNotFound = errors.New("book: position not found")

// Book is the position persistence contract the core consumes.
type Book interface {
	// Open records a new Open position with a fresh id.
	Open(accountID, symbol string, entryPrice float64, quantity int, entryTime time.Time, stop StopLoss) (Position, error)

	// Close transitions a position Open -> Closed, recording exit fields
	// and realized P&L = (exit - entry) * quantity. The returned record is
	// immutable; closing an unknown or already-closed id fails with
	// ErrNotFound.
	Close(positionID string, exitPrice float64, exitTime time.Time, reason string) (Position, error)

	// OpenPositions returns the account's Open positions in insertion
	// order. The order is load-bearing: sell matching walks it first-open
	// first.
	OpenPositions(accountID string) []Position
}

// MemBook is the in-memory Book used by backtests. Ids are sequential per
// book so identical runs produce identical position ids.
type MemBook struct {
	mu     sync.Mutex
	seq    int
	byID   map[string]*Position
	byAcct map[string][]*Position
}

func NewMemBook() *MemBook {
	return &MemBook{
		byID:   make(map[string]*Position),
		byAcct: make(map[string][]*Position),
	}
}

func (b *MemBook) Open(accountID, symbol string, entryPrice float64, quantity int, entryTime time.Time, stop StopLoss) (Position, error) {
	if quantity <= 0 {
		return Position{}, fmt.Errorf("book: quantity must be positive, got %d", quantity)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	p := &Position{
		ID:         fmt.Sprintf("P-%06d", b.seq),
		AccountID:  accountID,
		Symbol:     symbol,
		EntryTime:  entryTime,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		Stop:       stop,
		Status:     Open,
	}
	b.byID[p.ID] = p
	b.byAcct[accountID] = append(b.byAcct[accountID], p)
	return *p, nil
}

func (b *MemBook) Close(positionID string, exitPrice float64, exitTime time.Time, reason string) (Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.byID[positionID]
	if !ok || p.Status != Open {
		return Position{}, fmt.Errorf("%w: %q", ErrNotFound, positionID)
	}

	p.Status = Closed
	p.ExitTime = exitTime
	p.ExitPrice = exitPrice
	p.ExitReason = reason
	p.RealizedPL = (exitPrice - p.EntryPrice) * float64(p.Quantity)
	return *p, nil
}

func (b *MemBook) OpenPositions(accountID string) []Position {
	b.mu.Lock()
	defer b.mu.Unlock()

	var out []Position
	for _, p := range b.byAcct[accountID] {
		if p.Status == Open {
			out = append(out, *p)
		}
	}
	return out
}

// Get returns a snapshot of any position, open or closed.
func (b *MemBook) Get(positionID string) (Position, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.byID[positionID]
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrNotFound, positionID)
	}
	return *p, nil
}
