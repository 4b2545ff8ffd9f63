package dto

import (
	"time"

	"github.com/SscSPs/account_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountRequest is the payload of deposits and withdrawals. Amount accepts a
// JSON number or a numeric string.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"123.45"`
}

// TransferRequest is the payload of a transfer out of the path account.
type TransferRequest struct {
	ToNumber string          `json:"toNumber" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required,gt=0" swaggertype:"string" example:"123.45"`
}

// TransferFeeParams defines query parameters for the fee preview.
type TransferFeeParams struct {
	ToNumber string `form:"toNumber" binding:"required"`
}

// TransferReceiptResponse describes a committed transfer.
type TransferReceiptResponse struct {
	FromNumber string          `json:"fromNumber"`
	ToNumber   string          `json:"toNumber"`
	Amount     decimal.Decimal `json:"amount" swaggertype:"string"`
	Fee        decimal.Decimal `json:"fee" swaggertype:"string"`
	Debited    decimal.Decimal `json:"debited" swaggertype:"string"`
	ExecutedAt time.Time       `json:"executedAt"`
}

// TransferResponse returns the refreshed source account with the receipt.
type TransferResponse struct {
	Account AccountResponse         `json:"account"`
	Receipt TransferReceiptResponse `json:"receipt"`
}

// TransferFeeResponse is the fee preview for a pair of accounts.
type TransferFeeResponse struct {
	FromNumber string          `json:"fromNumber"`
	ToNumber   string          `json:"toNumber"`
	Fee        decimal.Decimal `json:"fee" swaggertype:"string"`
}

// DailyLimitResponse reports the daily transfer allowance of an account.
type DailyLimitResponse struct {
	Number           string          `json:"number"`
	DailyLimit       decimal.Decimal `json:"dailyLimit" swaggertype:"string"`
	TransferredToday decimal.Decimal `json:"transferredToday" swaggertype:"string"`
	Remaining        decimal.Decimal `json:"remaining" swaggertype:"string"`
}

// ToTransferReceiptResponse converts a domain.TransferReceipt to its DTO
func ToTransferReceiptResponse(r *domain.TransferReceipt) TransferReceiptResponse {
	return TransferReceiptResponse{
		FromNumber: r.FromNumber,
		ToNumber:   r.ToNumber,
		Amount:     r.Amount,
		Fee:        r.Fee,
		Debited:    r.Debited(),
		ExecutedAt: r.ExecutedAt,
	}
}

// NewDailyLimitResponse computes the remaining allowance, floored at zero.
func NewDailyLimitResponse(number string, limit, transferred decimal.Decimal) DailyLimitResponse {
	remaining := limit.Sub(transferred)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return DailyLimitResponse{
		Number:           number,
		DailyLimit:       limit,
		TransferredToday: transferred,
		Remaining:        remaining,
	}
}
