package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AiswaryaS-IT/banking-website/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. The transactions table is append-only: rows are inserted when
// a transaction is applied and never updated or deleted.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{
		pool: pool,
	}
}

// Create appends a new transaction record.
func (r *TransactionRepository) Create(ctx context.Context, record *domain.TransactionRecord) error {
	query := `
		INSERT INTO transactions (
			id, account_id, transaction_type,
			amount, balance_after,
			idempotency_key, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	// Empty keys are stored as NULL so the per-account unique index only
	// applies to transactions that actually carry a key.
	var key *string
	if record.IdempotencyKey != "" {
		key = &record.IdempotencyKey
	}

	args := []any{
		record.ID,
		record.AccountID,
		string(record.Type),
		record.Amount,
		record.BalanceAfter,
		key,
		record.CreatedAt,
	}

	var err error
	if tx := getTx(ctx); tx != nil {
		_, err = tx.Exec(ctx, query, args...)
	} else {
		_, err = r.pool.Exec(ctx, query, args...)
	}

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("failed to create transaction record: %w", err)
	}

	return nil
}

// ListByAccount returns all records for the account ordered by creation
// time ascending. The id tiebreak keeps the order stable for records
// created within the same microsecond.
func (r *TransactionRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.TransactionRecord, error) {
	query := `
		SELECT id, account_id, transaction_type,
		       amount, balance_after,
		       idempotency_key, created_at
		FROM transactions
		WHERE account_id = $1
		ORDER BY created_at ASC, id ASC
	`

	var rows pgx.Rows
	var err error
	if tx := getTx(ctx); tx != nil {
		rows, err = tx.Query(ctx, query, accountID)
	} else {
		rows, err = r.pool.Query(ctx, query, accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	records := make([]domain.TransactionRecord, 0)
	for rows.Next() {
		record, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	return records, nil
}

// GetByIdempotencyKey retrieves the account's record carrying the given
// idempotency key. Keys are only unique within one account, so the lookup
// always filters by account id. Returns nil, nil when no record matches.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, accountID uuid.UUID, key string) (*domain.TransactionRecord, error) {
	query := `
		SELECT id, account_id, transaction_type,
		       amount, balance_after,
		       idempotency_key, created_at
		FROM transactions
		WHERE account_id = $1 AND idempotency_key = $2
	`

	var row pgx.Row
	if tx := getTx(ctx); tx != nil {
		row = tx.QueryRow(ctx, query, accountID, key)
	} else {
		row = r.pool.QueryRow(ctx, query, accountID, key)
	}

	record, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get transaction by idempotency key: %w", err)
	}

	return record, nil
}

// scanTransaction scans a single transactions row.
func scanTransaction(row pgx.Row) (*domain.TransactionRecord, error) {
	var record domain.TransactionRecord
	var txType string
	var key *string

	err := row.Scan(
		&record.ID,
		&record.AccountID,
		&txType,
		&record.Amount,
		&record.BalanceAfter,
		&key,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Type = domain.TransactionType(txType)
	if key != nil {
		record.IdempotencyKey = *key
	}
	return &record, nil
}
