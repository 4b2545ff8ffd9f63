package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/account_ledger/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByNumber retrieves a specific account by its unique number.
	FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts, open and closed.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// CloseAccount flags the account closed if it is open and its balance is zero.
	// It reports whether a row was updated.
	CloseAccount(ctx context.Context, number string, now time.Time) (bool, error)
}

// AccountBalanceWriter defines conditional balance mutations.
// Both report false (and no error) when the row did not match the condition.
type AccountBalanceWriter interface {
	// CreditBalance adds amount to an open account.
	CreditBalance(ctx context.Context, number string, amount decimal.Decimal, now time.Time) (bool, error)

	// DebitBalance subtracts amount from an open account holding at least amount.
	DebitBalance(ctx context.Context, number string, amount decimal.Decimal, now time.Time) (bool, error)
}

// AccountTransactionSupport defines the same conditional mutations bound to a transaction.
type AccountTransactionSupport interface {
	// CreditBalanceInTx adds amount to an open account within tx.
	CreditBalanceInTx(ctx context.Context, tx pgx.Tx, number string, amount decimal.Decimal, now time.Time) (bool, error)

	// DebitBalanceInTx subtracts amount from an open, sufficiently funded account within tx.
	DebitBalanceInTx(ctx context.Context, tx pgx.Tx, number string, amount decimal.Decimal, now time.Time) (bool, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
// This is a facade for clients that need access to all operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountBalanceWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
