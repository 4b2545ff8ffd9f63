package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/account_ledger/internal/apperrors"
	"github.com/SscSPs/account_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/account_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/account_ledger/internal/models"
	"github.com/SscSPs/account_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100

	accountColumns = `number, owner, balance, closed, created_at, last_updated_at`

	// Both balance updates only touch open accounts; a debit additionally
	// requires the full amount to be available. RowsAffected tells the caller
	// whether the condition held.
	creditBalanceQuery = `
		UPDATE accounts
		SET balance = balance + $2, last_updated_at = $3
		WHERE number = $1 AND closed = FALSE;
	`
	debitBalanceQuery = `
		UPDATE accounts
		SET balance = balance - $2, last_updated_at = $3
		WHERE number = $1 AND closed = FALSE AND balance >= $2;
	`
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// scanAccount reads one row selected with accountColumns.
func scanAccount(row pgx.Row) (domain.Account, error) {
	var modelAcc models.Account
	err := row.Scan(
		&modelAcc.Number,
		&modelAcc.Owner,
		&modelAcc.Balance,
		&modelAcc.Closed,
		&modelAcc.CreatedAt,
		&modelAcc.LastUpdatedAt,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(modelAcc), nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (number, owner, balance, closed, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`

	_, err := r.Pool.Exec(ctx, query,
		modelAcc.Number,
		modelAcc.Owner,
		modelAcc.Balance,
		modelAcc.Closed,
		modelAcc.CreatedAt,
		modelAcc.LastUpdatedAt,
	)

	if err != nil {
		if hasPgCode(err, pgUniqueViolation) {
			return fmt.Errorf("%w: account with number %s already exists", apperrors.ErrDuplicate, modelAcc.Number)
		}
		return fmt.Errorf("failed to save account %s: %w", modelAcc.Number, err)
	}
	return nil
}

// FindAccountByNumber retrieves an account by its number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, number string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE number = $1;`

	account, err := scanAccount(r.Pool.QueryRow(ctx, query, number))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, number)
		}
		return nil, fmt.Errorf("failed to find account by number %s: %w", number, err)
	}
	return &account, nil
}

// ListAccounts retrieves a page of accounts, oldest first.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY created_at, number
		LIMIT $1 OFFSET $2;
	`

	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}

	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}

	return accounts, nil
}

// CloseAccount flags an open, liquidated account as closed.
func (r *PgxAccountRepository) CloseAccount(ctx context.Context, number string, now time.Time) (bool, error) {
	query := `
		UPDATE accounts
		SET closed = TRUE, last_updated_at = $2
		WHERE number = $1 AND closed = FALSE AND balance = 0;
	`

	cmdTag, err := r.Pool.Exec(ctx, query, number, now)
	if err != nil {
		return false, fmt.Errorf("failed to execute close account %s: %w", number, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}

func (r *PgxAccountRepository) CreditBalance(ctx context.Context, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	return updateBalance(ctx, r.Pool, creditBalanceQuery, number, amount, now)
}

func (r *PgxAccountRepository) DebitBalance(ctx context.Context, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	return updateBalance(ctx, r.Pool, debitBalanceQuery, number, amount, now)
}

func (r *PgxAccountRepository) CreditBalanceInTx(ctx context.Context, tx pgx.Tx, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	return updateBalance(ctx, tx, creditBalanceQuery, number, amount, now)
}

func (r *PgxAccountRepository) DebitBalanceInTx(ctx context.Context, tx pgx.Tx, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	return updateBalance(ctx, tx, debitBalanceQuery, number, amount, now)
}

// updateBalance runs one of the conditional balance statements and reports
// whether it matched a row.
func updateBalance(ctx context.Context, db execer, query string, number string, amount decimal.Decimal, now time.Time) (bool, error) {
	cmdTag, err := db.Exec(ctx, query, number, amount, now)
	if err != nil {
		// A CHECK constraint rejected the new balance.
		if hasPgCode(err, pgCheckViolation) {
			return false, nil
		}
		return false, fmt.Errorf("failed to update balance of account %s: %w", number, err)
	}
	return cmdTag.RowsAffected() == 1, nil
}
