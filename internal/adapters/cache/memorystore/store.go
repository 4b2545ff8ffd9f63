package memorystore

import (
	"context"
	"sync"
	"time"

	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

type entry struct {
	amount    decimal.Decimal
	expiresAt time.Time
}

// Store is a process-local TransferLimitStore. Totals are lost on restart
// and not shared between instances.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	now     func() time.Time
}

// Option is a functional option for configuring the store
type Option func(*Store)

// WithClock replaces time.Now for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store.
func New(options ...Option) *Store {
	s := &Store{entries: make(map[string]entry), now: time.Now}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portsrepo.TransferLimitStore = (*Store)(nil)

func (s *Store) GetAmount(_ context.Context, key string) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return decimal.Zero, nil
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		return decimal.Zero, nil
	}
	return e.amount, nil
}

func (s *Store) PutAmount(_ context.Context, key string, amount decimal.Decimal, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.evictExpired(now)
	if !now.Before(expiresAt) {
		delete(s.entries, key)
		return nil
	}
	s.entries[key] = entry{amount: amount, expiresAt: expiresAt}
	return nil
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired(s.now())
	return len(s.entries)
}

// evictExpired must be called with mu held.
func (s *Store) evictExpired(now time.Time) {
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
		}
	}
}
