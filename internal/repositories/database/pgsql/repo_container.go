package pgsql

import (
	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider builds the PostgreSQL-backed repositories. The
// transfer limit store is not relational and is supplied by the caller.
func NewRepositoryProvider(dbPool *pgxpool.Pool, limitStore portsrepo.TransferLimitStore) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:        newPgxAccountRepository(dbPool),
		TransferLimitStore: limitStore,
	}
}
