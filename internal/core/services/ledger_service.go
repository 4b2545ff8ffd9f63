package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/account_ledger/internal/apperrors"
	"github.com/SscSPs/account_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/SscSPs/account_ledger/internal/utils"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DefaultTransferFee is charged on transfers between accounts of different owners.
const DefaultTransferFee = 100

var (
	ErrInvalidAmount      = fmt.Errorf("%w: amount must be positive with at most 2 decimal places", apperrors.ErrValidation)
	ErrSameAccount        = fmt.Errorf("%w: source and destination accounts cannot be the same", apperrors.ErrValidation)
	ErrDailyLimitExceeded = fmt.Errorf("%w: account daily transfer limit reached", apperrors.ErrBusinessRule)
	ErrNotApproved        = fmt.Errorf("%w: transfer not approved", apperrors.ErrBusinessRule)
	ErrWithdrawalFailed   = fmt.Errorf("%w: unable to withdraw amount from source account", apperrors.ErrBusinessRule)
	ErrDepositFailed      = fmt.Errorf("%w: unable to deposit amount into destination account", apperrors.ErrBusinessRule)
)

// ledgerService provides the balance primitives and the transfer orchestration.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	limitSvc    portssvc.TransferLimitSvc
	approvalSvc portssvc.TransferApprovalSvc
	transferFee decimal.Decimal
	now         func() time.Time
}

// LedgerOption is a functional option for configuring the ledger service
type LedgerOption func(*ledgerService)

// WithTransferFee overrides DefaultTransferFee.
func WithTransferFee(fee decimal.Decimal) LedgerOption {
	return func(s *ledgerService) {
		s.transferFee = fee
	}
}

// WithLedgerClock replaces time.Now for audit timestamps and receipts.
func WithLedgerClock(now func() time.Time) LedgerOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(
	accountRepo portsrepo.AccountRepositoryWithTx,
	limitSvc portssvc.TransferLimitSvc,
	approvalSvc portssvc.TransferApprovalSvc,
	options ...LedgerOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		BaseService: newBaseService("ledger"),
		accountRepo: accountRepo,
		limitSvc:    limitSvc,
		approvalSvc: approvalSvc,
		transferFee: decimal.NewFromInt(DefaultTransferFee),
		now:         time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Deposit credits amount to an open account. It returns false without an
// error when the account is closed or does not exist.
func (s *ledgerService) Deposit(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error) {
	if !utils.IsValidAmount(amount) {
		return false, ErrInvalidAmount
	}

	deposited, err := s.accountRepo.CreditBalance(ctx, account.Number, amount, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to deposit",
			slog.String("account_number", account.Number),
			slog.String("amount", utils.FormatAmount(amount)))
		return false, fmt.Errorf("failed to deposit into account %s: %w", account.Number, err)
	}
	if !deposited {
		s.LogWarn(ctx, "Deposit not applied, account closed or missing",
			slog.String("account_number", account.Number))
		return false, nil
	}

	s.LogInfo(ctx, "Deposit applied",
		slog.String("account_number", account.Number),
		slog.String("amount", utils.FormatAmount(amount)))
	return true, nil
}

// Withdrawal debits amount from an open account holding at least amount.
// It returns false without an error when either condition does not hold.
func (s *ledgerService) Withdrawal(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error) {
	if !utils.IsValidAmount(amount) {
		return false, ErrInvalidAmount
	}

	withdrawn, err := s.accountRepo.DebitBalance(ctx, account.Number, amount, s.now())
	if err != nil {
		s.LogError(ctx, err, "Failed to withdraw",
			slog.String("account_number", account.Number),
			slog.String("amount", utils.FormatAmount(amount)))
		return false, fmt.Errorf("failed to withdraw from account %s: %w", account.Number, err)
	}
	if !withdrawn {
		s.LogWarn(ctx, "Withdrawal not applied, account closed, missing or short of funds",
			slog.String("account_number", account.Number),
			slog.String("amount", utils.FormatAmount(amount)))
		return false, nil
	}

	s.LogInfo(ctx, "Withdrawal applied",
		slog.String("account_number", account.Number),
		slog.String("amount", utils.FormatAmount(amount)))
	return true, nil
}

// CalculateTransferFee is free between accounts of the same owner and a flat
// fee otherwise, whatever the amount.
func (s *ledgerService) CalculateTransferFee(from domain.Account, to domain.Account) decimal.Decimal {
	if from.SameOwner(to) {
		return decimal.Zero
	}
	return s.transferFee
}

// validateTransfer runs every check that does not touch balances. Open
// status and funds are enforced by the conditional updates themselves.
func (s *ledgerService) validateTransfer(ctx context.Context, from domain.Account, to domain.Account, amount decimal.Decimal) error {
	if !utils.IsValidAmount(amount) {
		return ErrInvalidAmount
	}

	if from.Number == to.Number {
		return ErrSameAccount
	}

	// The fee does not count against the daily limit.
	exceeded, err := s.limitSvc.WouldExceedLimit(ctx, from, amount)
	if err != nil {
		s.LogError(ctx, err, "Failed to check daily transfer limit",
			slog.String("account_number", from.Number))
		return fmt.Errorf("failed to check daily transfer limit: %w", err)
	}
	if exceeded {
		return ErrDailyLimitExceeded
	}

	if !s.approvalSvc.Approve(ctx, from, to, amount) {
		return ErrNotApproved
	}

	return nil
}

// Transfer moves amount from one account to another. The debit of
// amount+fee and the credit of amount happen in one database transaction;
// the daily limit is updated only after commit and its failure does not
// undo the transfer.
func (s *ledgerService) Transfer(ctx context.Context, from domain.Account, to domain.Account, amount decimal.Decimal) (*domain.TransferReceipt, error) {
	logger := s.GetLogger(ctx).With(
		slog.String("from_account", from.Number),
		slog.String("to_account", to.Number),
		slog.String("amount", utils.FormatAmount(amount)),
	)

	if err := s.validateTransfer(ctx, from, to, amount); err != nil {
		logger.Warn("Transfer rejected", slog.String("reason", err.Error()))
		return nil, err
	}

	fee := s.CalculateTransferFee(from, to)
	now := s.now()

	if err := s.moveFunds(ctx, from, to, amount, fee, now); err != nil {
		logger.Warn("Transfer aborted", slog.String("reason", err.Error()))
		return nil, err
	}

	if err := s.limitSvc.RegisterTransfer(ctx, from, amount); err != nil {
		logger.Error("Transfer committed but daily limit registration failed", slog.String("error", err.Error()))
	}

	logger.Info("Transfer committed", slog.String("fee", utils.FormatAmount(fee)))
	return &domain.TransferReceipt{
		FromNumber: from.Number,
		ToNumber:   to.Number,
		Amount:     amount,
		Fee:        fee,
		ExecutedAt: now,
	}, nil
}

// moveFunds applies both legs of a transfer inside one transaction and
// rolls back unless both applied.
func (s *ledgerService) moveFunds(ctx context.Context, from domain.Account, to domain.Account, amount, fee decimal.Decimal, now time.Time) error {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transfer: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := s.accountRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back transfer",
				slog.String("from_account", from.Number),
				slog.String("to_account", to.Number))
		}
	}()

	if err := s.applyLeg(ctx, tx, s.accountRepo.DebitBalanceInTx, from.Number, amount.Add(fee), now, ErrWithdrawalFailed); err != nil {
		return err
	}

	if err := s.applyLeg(ctx, tx, s.accountRepo.CreditBalanceInTx, to.Number, amount, now, ErrDepositFailed); err != nil {
		return err
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit transfer: %w", err)
	}
	committed = true
	return nil
}

type balanceMutation func(ctx context.Context, tx pgx.Tx, number string, amount decimal.Decimal, now time.Time) (bool, error)

// applyLeg escalates a false conditional update to the named transfer error.
func (s *ledgerService) applyLeg(ctx context.Context, tx pgx.Tx, mutate balanceMutation, number string, amount decimal.Decimal, now time.Time, failure error) error {
	applied, err := mutate(ctx, tx, number, amount, now)
	if err != nil {
		return fmt.Errorf("failed to update balance of account %s: %w", number, err)
	}
	if !applied {
		return fmt.Errorf("%w: account %s", failure, number)
	}
	return nil
}
