package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountRepository defines the interface for account data access operations.
// This follows the Repository pattern to abstract data persistence logic.
type AccountRepository interface {
	// Create persists a new account. Returns ErrAccountNumberTaken when
	// another account already holds the same account number.
	Create(ctx context.Context, account *Account) error

	// GetByNumber retrieves an account by its account number.
	// Returns ErrAccountNotFound if no such account exists.
	GetByNumber(ctx context.Context, accountNumber string) (*Account, error)

	// GetByNumberAndPhone retrieves an account matching both fields
	// exactly. Returns ErrAccountNotFound when either does not match.
	GetByNumberAndPhone(ctx context.Context, accountNumber, phone string) (*Account, error)

	// LockByNumber acquires a row-level lock on the account for the
	// duration of the surrounding transaction. Must be called within a
	// transaction context.
	LockByNumber(ctx context.Context, accountNumber string) (*Account, error)

	// UpdateBalance persists a new balance for the account.
	UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error
}

// TransactionRepository defines the interface for the append-only
// transaction log.
type TransactionRepository interface {
	// Create appends a new transaction record. Returns
	// ErrDuplicateTransaction when the account already has a record with
	// the same idempotency key.
	Create(ctx context.Context, record *TransactionRecord) error

	// ListByAccount returns all records for the account ordered by
	// creation time ascending. An account with no transactions yields an
	// empty slice, not an error.
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]TransactionRecord, error)

	// GetByIdempotencyKey retrieves the account's record carrying the
	// given idempotency key. Keys are scoped per account; the same key on
	// another account names a different record. Returns nil, nil when the
	// account has no record with the key.
	GetByIdempotencyKey(ctx context.Context, accountID uuid.UUID, key string) (*TransactionRecord, error)
}

// TransactionManager defines the interface for managing database
// transactions. The abstraction keeps the service layer decoupled from a
// specific database implementation.
type TransactionManager interface {
	// WithTransaction executes the given function within a database
	// transaction. If the function returns an error, the transaction is
	// rolled back. Otherwise, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// EventPublisher publishes domain events to external systems (e.g. RabbitMQ).
type EventPublisher interface {
	PublishTransactionApplied(ctx context.Context, receipt *Receipt) error
}
