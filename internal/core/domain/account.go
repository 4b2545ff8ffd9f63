package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Account represents a bank account within the core domain.
// This is the primary representation used by services.
type Account struct {
	Number      string          `json:"number"`  // Unique, UUID assigned at creation
	Owner       string          `json:"owner"`   // Display/identity string, immutable
	Balance     decimal.Decimal `json:"balance"` // Never negative
	Closed      bool            `json:"closed"`  // Closed accounts always hold a zero balance
	AuditFields                 // Embed CreatedAt, LastUpdatedAt
}

// NewAccount builds an open, empty account for owner. The number is left
// blank for the caller to assign.
func NewAccount(owner string) Account {
	return Account{
		Owner:   strings.TrimSpace(owner),
		Balance: decimal.Zero,
		Closed:  false,
	}
}

// IsClosed reports whether the account has been closed.
func (a Account) IsClosed() bool {
	return a.Closed
}

// IsOpen reports whether the account still accepts balance mutations.
func (a Account) IsOpen() bool {
	return !a.IsClosed()
}

// IsLiquidated reports whether the account balance is exactly zero, the
// precondition for closing it.
func (a Account) IsLiquidated() bool {
	return a.Balance.IsZero()
}

// SameOwner reports whether both accounts belong to the same owner.
func (a Account) SameOwner(other Account) bool {
	return a.Owner == other.Owner
}
