package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransferLimitStore is a key-value store with expiry used to accumulate
// the amount an account transferred out during a calendar day.
type TransferLimitStore interface {
	// GetAmount returns the stored amount, or zero when the key is absent or expired.
	GetAmount(ctx context.Context, key string) (decimal.Decimal, error)

	// PutAmount stores amount under key until expiresAt.
	PutAmount(ctx context.Context, key string, amount decimal.Decimal, expiresAt time.Time) error
}
