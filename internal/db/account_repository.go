package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/AiswaryaS-IT/banking-website/internal/domain"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{
		pool: pool,
	}
}

const accountColumns = `id, account_number, fullname, address, phone, email, account_type, balance, created_at, updated_at`

// Create persists a new account. The unique constraint on account_number is
// the authority on collisions; a violation surfaces as ErrAccountNumberTaken
// so the caller can regenerate.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	args := []any{
		account.ID,
		account.AccountNumber,
		account.FullName,
		account.Address,
		account.Phone,
		account.Email,
		string(account.AccountType),
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
	}

	var err error
	if tx := getTx(ctx); tx != nil {
		_, err = tx.Exec(ctx, query, args...)
	} else {
		_, err = r.pool.Exec(ctx, query, args...)
	}

	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrAccountNumberTaken
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByNumber retrieves an account by its account number.
func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_number = $1
	`
	return r.queryAccount(ctx, query, accountNumber)
}

// GetByNumberAndPhone retrieves an account matching both fields exactly.
func (r *AccountRepository) GetByNumberAndPhone(ctx context.Context, accountNumber, phone string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_number = $1 AND phone = $2
	`
	return r.queryAccount(ctx, query, accountNumber, phone)
}

// LockByNumber acquires a pessimistic lock on the account row for the
// duration of the transaction. This method MUST be called within a
// transaction context. Uses SELECT ... FOR UPDATE to lock the row.
func (r *AccountRepository) LockByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE account_number = $1
		FOR UPDATE
	`
	return r.queryAccount(ctx, query, accountNumber)
}

// UpdateBalance persists a new balance for the account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $2,
		    updated_at = $3
		WHERE id = $1
	`

	var result pgconn.CommandTag
	var err error
	if tx := getTx(ctx); tx != nil {
		result, err = tx.Exec(ctx, query, id, balance, updatedAt)
	} else {
		result, err = r.pool.Exec(ctx, query, id, balance, updatedAt)
	}

	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// queryAccount runs a single-row account query against the transaction from
// context when present, otherwise against the pool.
func (r *AccountRepository) queryAccount(ctx context.Context, query string, args ...any) (*domain.Account, error) {
	var row pgx.Row
	if tx := getTx(ctx); tx != nil {
		row = tx.QueryRow(ctx, query, args...)
	} else {
		row = r.pool.QueryRow(ctx, query, args...)
	}

	var account domain.Account
	var accountType string
	err := row.Scan(
		&account.ID,
		&account.AccountNumber,
		&account.FullName,
		&account.Address,
		&account.Phone,
		&account.Email,
		&accountType,
		&account.Balance,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	account.AccountType = domain.AccountType(accountType)
	return &account, nil
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint
// violation (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
