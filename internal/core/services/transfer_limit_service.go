package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/account_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/account_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// DefaultDailyTransferLimit caps what an account may transfer out per calendar day.
const DefaultDailyTransferLimit = 10000

// transferLimitService keeps a per-account, per-day running total in a
// TransferLimitStore. Days are computed in a fixed location and entries
// expire at the following midnight.
//
// The check and the registration are separate calls, so two concurrent
// transfers may both pass the check before either registers.
type transferLimitService struct {
	BaseService
	store    portsrepo.TransferLimitStore
	limit    decimal.Decimal
	location *time.Location
	now      func() time.Time
}

// TransferLimitOption is a functional option for configuring the limit service
type TransferLimitOption func(*transferLimitService)

// WithDailyLimit overrides DefaultDailyTransferLimit.
func WithDailyLimit(limit decimal.Decimal) TransferLimitOption {
	return func(s *transferLimitService) {
		s.limit = limit
	}
}

// WithLimitLocation sets the time zone that defines a calendar day. Defaults to UTC.
func WithLimitLocation(loc *time.Location) TransferLimitOption {
	return func(s *transferLimitService) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithLimitClock replaces time.Now.
func WithLimitClock(now func() time.Time) TransferLimitOption {
	return func(s *transferLimitService) {
		s.now = now
	}
}

// NewTransferLimitService creates a daily limit guard backed by store.
func NewTransferLimitService(store portsrepo.TransferLimitStore, options ...TransferLimitOption) portssvc.TransferLimitSvc {
	svc := &transferLimitService{
		BaseService: newBaseService("transfer_limit"),
		store:       store,
		limit:       decimal.NewFromInt(DefaultDailyTransferLimit),
		location:    time.UTC,
		now:         time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.TransferLimitSvc = (*transferLimitService)(nil)

func (s *transferLimitService) today() time.Time {
	return s.now().In(s.location)
}

// dailyKey identifies the accumulator of an account for the day containing t.
func dailyKey(account domain.Account, t time.Time) string {
	return fmt.Sprintf("account-%s-day-%s-transfer-amount", account.Number, t.Format(time.DateOnly))
}

// endOfDay returns the first instant of the day after t, in t's location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, t.Location())
}

func (s *transferLimitService) DailyLimit() decimal.Decimal {
	return s.limit
}

// TransferredToday returns the amount already registered for the account today.
func (s *transferLimitService) TransferredToday(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	key := dailyKey(account, s.today())
	amount, err := s.store.GetAmount(ctx, key)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to read daily transfer total for account %s: %w", account.Number, err)
	}
	return amount, nil
}

func (s *transferLimitService) WouldExceedLimit(ctx context.Context, account domain.Account, amount decimal.Decimal) (bool, error) {
	transferred, err := s.TransferredToday(ctx, account)
	if err != nil {
		return false, err
	}
	return amount.Add(transferred).GreaterThan(s.limit), nil
}

func (s *transferLimitService) RegisterTransfer(ctx context.Context, account domain.Account, amount decimal.Decimal) error {
	now := s.today()
	key := dailyKey(account, now)

	transferred, err := s.store.GetAmount(ctx, key)
	if err != nil {
		return fmt.Errorf("failed to read daily transfer total for account %s: %w", account.Number, err)
	}

	total := transferred.Add(amount)
	if err := s.store.PutAmount(ctx, key, total, endOfDay(now)); err != nil {
		return fmt.Errorf("failed to store daily transfer total for account %s: %w", account.Number, err)
	}

	s.LogDebug(ctx, "Transfer registered against daily limit",
		slog.String("account_number", account.Number),
		slog.String("transferred_today", total.String()))
	return nil
}
