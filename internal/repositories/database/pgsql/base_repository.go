package pgsql

import (
	"context"
	"errors"
	"net/http"

	"github.com/SscSPs/account_ledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgreSQL error codes the ledger reacts to.
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// execer is satisfied by both *pgxpool.Pool and pgx.Tx, letting balance
// statements run standalone or as one leg of a transfer.
type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// BaseRepository owns the pool and the transaction lifecycle shared by the
// ledger repositories.
type BaseRepository struct {
	Pool *pgxpool.Pool
}

func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, txError("begin", err)
	}
	return tx, nil
}

func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return txError("commit", err)
	}
	return nil
}

// Rollback is a no-op on a transaction that already committed or rolled back.
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return txError("rollback", err)
	}
	return nil
}

func txError(op string, err error) error {
	return apperrors.NewAppError(http.StatusInternalServerError, "failed to "+op+" transaction", err)
}

// hasPgCode reports whether err carries the given SQLSTATE.
func hasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
