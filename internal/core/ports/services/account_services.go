package services

import (
	"context"

	"github.com/SscSPs/account_ledger/internal/core/domain"
)

// AccountReaderSvc defines read operations for account data
type AccountReaderSvc interface {
	// GetAccountByNumber retrieves a specific account by its unique number.
	GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines write operations for account data
type AccountWriterSvc interface {
	// CreateAccount opens a new, empty account for owner.
	CreateAccount(ctx context.Context, owner string) (*domain.Account, error)

	// CloseAccount closes a liquidated account.
	CloseAccount(ctx context.Context, number string) (*domain.Account, error)
}

// AccountSvcFacade combines all account-related service interfaces
// This is a facade for clients that need access to all operations
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
}
