package utils

import (
	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of decimal places balances are stored with.
const AmountPrecision = 2

// IsValidAmount reports whether amount is strictly positive and carries no
// more than AmountPrecision decimal places.
// Example: 12.5 and 0.01 are valid, 0, -3 and 0.001 are not.
func IsValidAmount(amount decimal.Decimal) bool {
	return amount.IsPositive() && amount.Equal(amount.Truncate(AmountPrecision))
}

// IsValidFee reports whether fee is zero or positive and carries no more
// than AmountPrecision decimal places.
// Example: 0 and 2.50 are valid, -1 and 0.005 are not.
func IsValidFee(fee decimal.Decimal) bool {
	return !fee.IsNegative() && fee.Equal(fee.Truncate(AmountPrecision))
}

// FormatAmount formats an amount with exactly AmountPrecision decimal places.
// Example: 877 returns "877.00", 12.3 returns "12.30"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(AmountPrecision)
}
