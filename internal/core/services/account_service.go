package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/account_ledger/internal/apperrors"
	"github.com/SscSPs/account_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/google/uuid"
)

var (
	ErrOwnerRequired        = fmt.Errorf("%w: account owner is required", apperrors.ErrValidation)
	ErrAccountAlreadyClosed = fmt.Errorf("%w: account is already closed", apperrors.ErrBusinessRule)
	ErrAccountNotLiquidated = fmt.Errorf("%w: account balance not liquidated", apperrors.ErrBusinessRule)
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(repo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{BaseService: newBaseService("account"), accountRepo: repo}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, owner string) (*domain.Account, error) {
	account := domain.NewAccount(owner)
	if account.Owner == "" {
		return nil, ErrOwnerRequired
	}

	now := time.Now()
	account.Number = uuid.NewString()
	account.CreatedAt = now
	account.LastUpdatedAt = now

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_number", account.Number))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_number", account.Number),
		slog.String("owner", account.Owner))
	return &account, nil
}

func (s *accountService) GetAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	number = strings.TrimSpace(number)
	account, err := s.accountRepo.FindAccountByNumber(ctx, number)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by number",
				slog.String("account_number", number))
		}
		return nil, err // Propagate error (including NotFound)
	}

	s.LogDebug(ctx, "Account retrieved successfully",
		slog.String("account_number", account.Number))
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.Int("limit", limit),
			slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	if accounts == nil {
		return []domain.Account{}, nil // Return empty slice if repo returns nil
	}

	s.LogDebug(ctx, "Accounts listed successfully", slog.Int("count", len(accounts)))
	return accounts, nil
}

// CloseAccount closes an open account whose balance is zero. The storage
// update is itself conditioned on closed=false and balance=0, so a deposit
// racing with the close cannot leave a closed account holding money.
func (s *accountService) CloseAccount(ctx context.Context, number string) (*domain.Account, error) {
	account, err := s.GetAccountByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if account.IsClosed() {
		return nil, ErrAccountAlreadyClosed
	}
	if !account.IsLiquidated() {
		return nil, ErrAccountNotLiquidated
	}

	now := time.Now()
	closed, err := s.accountRepo.CloseAccount(ctx, account.Number, now)
	if err != nil {
		s.LogError(ctx, err, "Failed to close account",
			slog.String("account_number", account.Number))
		return nil, err
	}
	if !closed {
		// Lost a race with a deposit or another close.
		s.LogWarn(ctx, "Account changed while closing",
			slog.String("account_number", account.Number))
		return nil, fmt.Errorf("%w: account %s changed while closing", ErrAccountNotLiquidated, account.Number)
	}

	account.Closed = true
	account.LastUpdatedAt = now
	s.LogInfo(ctx, "Account closed successfully", slog.String("account_number", account.Number))
	return account, nil
}
