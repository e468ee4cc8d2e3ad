package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool wraps pgxpool.Pool. Domain repositories take *pgxpool.Pool directly;
// Pool exists for bootstrap (connect + ping). The domain repositories
// compose transactions through their own WithTx(pgx.Tx) methods, not
// through the WithTx helper below.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new database pool from a connection string and verifies
// connectivity before returning.
func NewPool(ctx context.Context, connString string) (*Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the database pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// WithTx runs fn within a transaction, committing on success and rolling
// back on any error fn returns or any error beginning/committing.
func WithTx(ctx context.Context, pool *pgxpool.Pool, fn func(pgx.Tx) error) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
