package dto

import (
	"time"

	"github.com/SscSPs/account_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	Owner string `json:"owner" binding:"required,min=3,max=255" example:"John Doe"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	Number        string          `json:"number"`
	Owner         string          `json:"owner"`
	Balance       decimal.Decimal `json:"balance" swaggertype:"string" example:"123.45"`
	Closed        bool            `json:"closed"`
	CreatedAt     time.Time       `json:"createdAt"`
	LastUpdatedAt time.Time       `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		Number:        acc.Number,
		Owner:         acc.Owner,
		Balance:       acc.Balance,
		Closed:        acc.Closed,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20" binding:"min=0,max=100"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}
