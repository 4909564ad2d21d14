package ledger

import (
	"fmt"
	"sync"
)

// MemStore is the in-memory Store used by backtests. Each account has its
// own mutex so operations against different accounts run in parallel while
// reserve/release/apply stay serialized per account.
type MemStore struct {
	mu    sync.RWMutex
	accts map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	acct Account
}

func NewMemStore() *MemStore {
	return &MemStore{accts: make(map[string]*entry)}
}

// Put seeds or replaces an account. This is the collaborator-side API; the
// core never creates accounts.
func (s *MemStore) Put(acct Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accts[acct.ID] = &entry{acct: acct}
}

func (s *MemStore) lookup(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.accts[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return e, nil
}

func (s *MemStore) Get(id string) (Account, error) {
	e, err := s.lookup(id)
	if err != nil {
		return Account{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.acct, nil
}

func (s *MemStore) Reserve(id string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("ledger: negative reserve amount %.2f", amount)
	}
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if amount > e.acct.Cash {
		return fmt.Errorf("%w: need %.2f, have %.2f", ErrInsufficientFunds, amount, e.acct.Cash)
	}
	e.acct.Cash -= amount
	return nil
}

func (s *MemStore) Release(id string, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("ledger: negative release amount %.2f", amount)
	}
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.acct.Cash += amount
	return nil
}

func (s *MemStore) ApplyPnL(id string, delta float64) error {
	e, err := s.lookup(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.acct.Cash += delta
	return nil
}
