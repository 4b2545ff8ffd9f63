package services_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/SscSPs/account_ledger/internal/apperrors"
	"github.com/SscSPs/account_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// fakeTx records undo steps so a rollback restores balances. Only the
// methods the ledger needs are implemented; the embedded interface is nil.
type fakeTx struct {
	pgx.Tx
	undo []func()
	done bool
}

// fakeAccountRepository is an in-memory AccountRepositoryWithTx that applies
// the same conditions as the SQL statements.
type fakeAccountRepository struct {
	mu       sync.Mutex
	accounts map[string]*domain.Account
}

var _ portsrepo.AccountRepositoryWithTx = (*fakeAccountRepository)(nil)

func newFakeAccountRepository(accounts ...domain.Account) *fakeAccountRepository {
	r := &fakeAccountRepository{accounts: make(map[string]*domain.Account)}
	for i := range accounts {
		a := accounts[i]
		r.accounts[a.Number] = &a
	}
	return r
}

func (r *fakeAccountRepository) balance(number string) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[number].Balance
}

func (r *fakeAccountRepository) get(number string) domain.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.accounts[number]
}

func (r *fakeAccountRepository) SaveAccount(_ context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.Number]; ok {
		return apperrors.ErrDuplicate
	}
	r.accounts[account.Number] = &account
	return nil
}

func (r *fakeAccountRepository) FindAccountByNumber(_ context.Context, number string) (*domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[number]
	if !ok {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, number)
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAccountRepository) ListAccounts(_ context.Context, _ int, _ int) ([]domain.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Account, 0, len(r.accounts))
	for _, a := range r.accounts {
		out = append(out, *a)
	}
	return out, nil
}

func (r *fakeAccountRepository) CloseAccount(_ context.Context, number string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[number]
	if !ok || a.Closed || !a.Balance.IsZero() {
		return false, nil
	}
	a.Closed = true
	a.LastUpdatedAt = now
	return true, nil
}

func (r *fakeAccountRepository) mutate(tx *fakeTx, number string, delta decimal.Decimal, needFunds bool, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.accounts[number]
	if !ok || a.Closed {
		return false
	}
	if needFunds && a.Balance.LessThan(delta.Neg()) {
		return false
	}
	a.Balance = a.Balance.Add(delta)
	a.LastUpdatedAt = now
	if tx != nil {
		tx.undo = append(tx.undo, func() { a.Balance = a.Balance.Sub(delta) })
	}
	return true
}

func (r *fakeAccountRepository) CreditBalance(_ context.Context, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	return r.mutate(nil, number, amount, false, now), nil
}

func (r *fakeAccountRepository) DebitBalance(_ context.Context, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	return r.mutate(nil, number, amount.Neg(), true, now), nil
}

func (r *fakeAccountRepository) CreditBalanceInTx(_ context.Context, tx pgx.Tx, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	return r.mutate(tx.(*fakeTx), number, amount, false, now), nil
}

func (r *fakeAccountRepository) DebitBalanceInTx(_ context.Context, tx pgx.Tx, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	return r.mutate(tx.(*fakeTx), number, amount.Neg(), true, now), nil
}

func (r *fakeAccountRepository) Begin(_ context.Context) (pgx.Tx, error) {
	return &fakeTx{}, nil
}

func (r *fakeAccountRepository) Commit(_ context.Context, tx pgx.Tx) error {
	tx.(*fakeTx).done = true
	return nil
}

func (r *fakeAccountRepository) Rollback(_ context.Context, tx pgx.Tx) error {
	ft := tx.(*fakeTx)
	if ft.done {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(ft.undo) - 1; i >= 0; i-- {
		ft.undo[i]()
	}
	ft.done = true
	return nil
}
