// Package ledger owns cash balances and the fund reservation protocol.
//
// Reservations are how buys stay atomic with position opens: the coordinator
// reserves the full cost up front, and releases it if any later step fails.
package ledger

import (
	"errors"
)

var (
	ErrNotFound          = errors.New("ledger: account not found")
	ErrInsufficientFunds = errors.New("ledger: insufficient funds")
)

// Account is one trading account's cash state. Cash is never negative.
type Account struct {
	ID             string
	Cash           float64
	InitialCapital float64
	Active         bool
}

// Store is the account persistence contract the core consumes. All four
// operations are serialized per account; implementations must never expose
// a partially applied mutation.
//
// There is no implicit account creation here; seeding accounts belongs to
// the persistence collaborator.
type Store interface {
	Get(id string) (Account, error)

	// Reserve debits cash iff amount <= cash; otherwise fails with
	// ErrInsufficientFunds leaving cash unchanged.
	Reserve(id string, amount float64) error

	// Release credits cash back; used to undo a reservation when a
	// downstream step fails.
	Release(id string, amount float64) error

	// ApplyPnL credits delta (possibly negative); used to post sale
	// proceeds.
	ApplyPnL(id string, delta float64) error
}
