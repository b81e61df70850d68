package db

import (
	"context"
	"fmt"
)

// migrations holds the schema bootstrap statements. Every statement is
// idempotent so Migrate can run on every service start.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY,
		account_number TEXT NOT NULL UNIQUE,
		fullname TEXT NOT NULL,
		address TEXT NOT NULL,
		phone TEXT NOT NULL,
		email TEXT NOT NULL,
		account_type TEXT NOT NULL,
		balance NUMERIC(15, 2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,

	`CREATE TABLE IF NOT EXISTS transactions (
		id UUID PRIMARY KEY,
		account_id UUID NOT NULL REFERENCES accounts(id),
		transaction_type TEXT NOT NULL,
		amount NUMERIC(15, 2) NOT NULL,
		balance_after NUMERIC(15, 2) NOT NULL,
		idempotency_key TEXT,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_transactions_account_created
		ON transactions(account_id, created_at);
	CREATE UNIQUE INDEX IF NOT EXISTS idx_transactions_account_idempotency_key
		ON transactions(account_id, idempotency_key);`,
}

// Migrate applies the database schema.
func Migrate(ctx context.Context, pool *Pool) error {
	for i, migration := range migrations {
		if _, err := pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("failed to run migration %d: %w", i+1, err)
		}
	}
	return nil
}
