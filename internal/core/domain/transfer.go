package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferReceipt describes a committed transfer between two accounts.
// The source was debited Amount+Fee and the destination credited Amount.
type TransferReceipt struct {
	FromNumber string          `json:"fromNumber"`
	ToNumber   string          `json:"toNumber"`
	Amount     decimal.Decimal `json:"amount"`
	Fee        decimal.Decimal `json:"fee"`
	ExecutedAt time.Time       `json:"executedAt"`
}

// Debited is the total amount that left the source account.
func (r TransferReceipt) Debited() decimal.Decimal {
	return r.Amount.Add(r.Fee)
}
