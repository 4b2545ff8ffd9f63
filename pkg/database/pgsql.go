package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolOptions configures the ledger connection pool. Zero values keep the
// pgxpool defaults.
type PoolOptions struct {
	DatabaseURL     string
	MaxConns        int32
	CheckConnection bool
}

const healthCheckPeriod = 30 * time.Second

// NewPgxPool creates a PostgreSQL connection pool. When CheckConnection is
// set the pool is pinged before being returned.
func NewPgxPool(ctx context.Context, opts PoolOptions, logger *slog.Logger) (*pgxpool.Pool, error) {
	if opts.DatabaseURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}

	// pgxpool.ParseConfig also honours PGHOST, PGUSER, etc. for missing parts.
	config, err := pgxpool.ParseConfig(opts.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}
	config.HealthCheckPeriod = healthCheckPeriod

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if opts.CheckConnection {
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, fmt.Errorf("failed to ping database: %w", err)
		}
	}

	logger.Info("PostgreSQL connection pool ready",
		slog.Int("max_conns", int(config.MaxConns)),
		slog.Bool("pinged", opts.CheckConnection))
	return pool, nil
}

// ClosePgxPool closes the pool; nil is ignored.
func ClosePgxPool(pool *pgxpool.Pool, logger *slog.Logger) {
	if pool == nil {
		return
	}
	pool.Close()
	logger.Info("PostgreSQL connection pool closed")
}
