package handlers_test

import (
	"context"

	"github.com/SscSPs/account_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, owner string) (*domain.Account, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) CloseAccount(ctx context.Context, number string) (*domain.Account, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) Deposit(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, account, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerService) Withdrawal(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, account, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, from domain.Account, to domain.Account, amount decimal.Decimal) (*domain.TransferReceipt, error) {
	args := m.Called(ctx, from, to, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransferReceipt), args.Error(1)
}

func (m *MockLedgerService) CalculateTransferFee(from domain.Account, to domain.Account) decimal.Decimal {
	args := m.Called(from, to)
	return args.Get(0).(decimal.Decimal)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock TransferLimitService ---
type MockTransferLimitService struct {
	mock.Mock
}

func (m *MockTransferLimitService) WouldExceedLimit(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error) {
	args := m.Called(ctx, account, amount)
	return args.Bool(0), args.Error(1)
}

func (m *MockTransferLimitService) RegisterTransfer(ctx context.Context, account domain.Account, amount decimal.Decimal) error {
	args := m.Called(ctx, account, amount)
	return args.Error(0)
}

func (m *MockTransferLimitService) TransferredToday(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	args := m.Called(ctx, account)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTransferLimitService) DailyLimit() decimal.Decimal {
	args := m.Called()
	return args.Get(0).(decimal.Decimal)
}

var _ portssvc.TransferLimitSvc = (*MockTransferLimitService)(nil)

// mockCtx matches the request context.
var mockCtx = mock.Anything

// decimalEq matches a decimal argument by value.
func decimalEq(expected string) interface{} {
	want := decimal.RequireFromString(expected)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

// accountNumbered matches a domain.Account argument by number.
func accountNumbered(number string) interface{} {
	return mock.MatchedBy(func(a domain.Account) bool { return a.Number == number })
}
