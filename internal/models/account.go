package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditFields mirrors the audit columns present on every table.
type AuditFields struct {
	CreatedAt     time.Time `db:"created_at"`
	LastUpdatedAt time.Time `db:"last_updated_at"`
}

// Account is the row shape of the accounts table.
type Account struct {
	Number      string          `db:"number"`
	Owner       string          `db:"owner"`
	Balance     decimal.Decimal `db:"balance"`
	Closed      bool            `db:"closed"`
	AuditFields                 // Embed common audit fields
}
