package services

import (
	"context"

	"github.com/SscSPs/account_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerMovementSvc defines the single-account balance primitives.
// A false result with a nil error means the account was closed, missing or
// (for withdrawals) short of funds.
type LedgerMovementSvc interface {
	Deposit(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error)
	Withdrawal(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error)
}

// LedgerTransferSvc defines inter-account transfers and their pricing.
type LedgerTransferSvc interface {
	// Transfer moves amount from one account to another, charging the transfer fee
	// to the source. Any failure leaves both balances untouched.
	Transfer(ctx context.Context, from domain.Account, to domain.Account, amount decimal.Decimal) (*domain.TransferReceipt, error)

	// CalculateTransferFee returns the fee charged for a transfer between the two accounts.
	CalculateTransferFee(from domain.Account, to domain.Account) decimal.Decimal
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerMovementSvc
	LedgerTransferSvc
}

// TransferLimitSvc tracks how much each account transferred out today.
type TransferLimitSvc interface {
	// WouldExceedLimit reports whether transferring amount would take the account
	// over its daily ceiling. It has no side effects.
	WouldExceedLimit(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error)

	// RegisterTransfer adds amount to today's total for the account.
	RegisterTransfer(ctx context.Context, account domain.Account, amount decimal.Decimal) error

	// TransferredToday returns the amount registered for the account today.
	TransferredToday(ctx context.Context, account domain.Account) (decimal.Decimal, error)

	// DailyLimit returns the configured ceiling.
	DailyLimit() decimal.Decimal
}

// TransferApprovalSvc asks an external authority whether a transfer may proceed.
// Implementations fail closed: anything other than an explicit approval is false.
type TransferApprovalSvc interface {
	Approve(ctx context.Context, from domain.Account, to domain.Account, amount decimal.Decimal) bool
}
