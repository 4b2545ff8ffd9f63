package mapping

import (
	"github.com/SscSPs/account_ledger/internal/core/domain"
	"github.com/SscSPs/account_ledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		Number:      d.Number,
		Owner:       d.Owner,
		Balance:     d.Balance,
		Closed:      d.Closed,
		AuditFields: models.AuditFields{CreatedAt: d.CreatedAt, LastUpdatedAt: d.LastUpdatedAt},
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		Number:      m.Number,
		Owner:       m.Owner,
		Balance:     m.Balance,
		Closed:      m.Closed,
		AuditFields: domain.AuditFields{CreatedAt: m.CreatedAt, LastUpdatedAt: m.LastUpdatedAt},
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to a slice of domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
