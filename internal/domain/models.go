package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account represents a customer bank account.
// The balance is mutated exclusively by the LedgerService; every other
// field except UpdatedAt is immutable after registration.
type Account struct {
	ID            uuid.UUID       // Unique identifier of the account row
	AccountNumber string          // Short opaque number assigned at registration, globally unique
	FullName      string          // Account holder's full name
	Address       string          // Postal address
	Phone         string          // Phone number, used together with AccountNumber for login
	Email         string          // Contact email
	AccountType   AccountType     // Account category (savings or checking)
	Balance       decimal.Decimal // Current balance
	CreatedAt     time.Time       // Timestamp when the account was created
	UpdatedAt     time.Time       // Timestamp of the last balance change
}

// TransactionRecord is a single entry in the append-only transaction log.
// Records are created exactly once when a transaction is applied and are
// never updated or deleted afterwards.
type TransactionRecord struct {
	ID             uuid.UUID       // Unique identifier of the record
	AccountID      uuid.UUID       // Owning account
	Type           TransactionType // Credit or Debit
	Amount         decimal.Decimal // Positive transaction magnitude
	BalanceAfter   decimal.Decimal // Account balance right after this record was applied
	IdempotencyKey string          // Optional client-supplied key; empty when not provided
	CreatedAt      time.Time       // Application timestamp, defines history order
}

// Profile is the minimal projection returned by Authenticate.
// It deliberately carries no balance and no contact details.
type Profile struct {
	FullName      string
	AccountNumber string
}

// Receipt is the result of a successfully applied transaction.
type Receipt struct {
	TransactionID uuid.UUID
	AccountNumber string
	Type          TransactionType
	Amount        decimal.Decimal
	NewBalance    decimal.Decimal
	CreatedAt     time.Time
}

// AccountType is the enumerated account category. It is opaque to the
// ledger; only registration validates it.
type AccountType string

const (
	AccountTypeSavings  AccountType = "savings"
	AccountTypeChecking AccountType = "checking"
)

// ParseAccountType validates and converts a raw account type string.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeSavings, AccountTypeChecking:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", ErrValidation, s)
	}
}

// TransactionType is the enumerated direction of a balance change.
type TransactionType string

const (
	// TransactionTypeCredit increases the balance.
	TransactionTypeCredit TransactionType = "Credit"

	// TransactionTypeDebit decreases the balance.
	TransactionTypeDebit TransactionType = "Debit"
)

// ParseTransactionType validates and converts a raw transaction type string.
func ParseTransactionType(s string) (TransactionType, error) {
	switch TransactionType(s) {
	case TransactionTypeCredit, TransactionTypeDebit:
		return TransactionType(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTransactionType, s)
	}
}

// NewAccount creates a new Account with the given number and registration data.
func NewAccount(accountNumber string, params RegisterParams) *Account {
	now := time.Now().UTC()
	return &Account{
		ID:            uuid.New(),
		AccountNumber: accountNumber,
		FullName:      params.FullName,
		Address:       params.Address,
		Phone:         params.Phone,
		Email:         params.Email,
		AccountType:   params.AccountType,
		Balance:       params.Deposit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NewTransactionRecord creates a log entry for a transaction applied to the
// given account, capturing the balance that resulted from it.
func NewTransactionRecord(accountID uuid.UUID, txType TransactionType, amount, balanceAfter decimal.Decimal, idempotencyKey string) *TransactionRecord {
	return &TransactionRecord{
		ID:             uuid.New(),
		AccountID:      accountID,
		Type:           txType,
		Amount:         amount,
		BalanceAfter:   balanceAfter,
		IdempotencyKey: idempotencyKey,
		CreatedAt:      time.Now().UTC(),
	}
}
