// Package db implements the PostgreSQL store behind the account directory
// and the transaction ledger.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the shared connection pool all repositories and the transaction
// manager run their queries through.
type Pool struct {
	*pgxpool.Pool
}

// NewPool opens a connection pool against the ledger database and verifies
// connectivity with a ping before returning it.
func NewPool(ctx context.Context, connString string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the database connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}
