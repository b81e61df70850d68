package domain

import "errors"

var (
	// ErrValidation is returned when registration input is missing or malformed.
	ErrValidation = errors.New("invalid input")

	// ErrAccountNotFound is returned when no account matches the given lookup.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidTransactionType is returned when the transaction type is
	// neither Credit nor Debit.
	ErrInvalidTransactionType = errors.New("invalid transaction type")

	// ErrInvalidAmount is returned when a transaction amount is not a
	// positive value with at most two decimal places.
	ErrInvalidAmount = errors.New("invalid amount: must be positive")

	// ErrInsufficientFunds is returned when a debit would drive the
	// balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrAccountNumberTaken is returned by the account repository when the
	// generated account number already exists. Register treats it as a
	// signal to generate a new candidate.
	ErrAccountNumberTaken = errors.New("account number already taken")

	// ErrIdentifierExhausted is returned when every generated account
	// number candidate collided. The whole Register call is safe to retry.
	ErrIdentifierExhausted = errors.New("could not allocate a unique account number")

	// ErrDuplicateTransaction is returned by the transaction repository
	// when a record with the same idempotency key already exists.
	ErrDuplicateTransaction = errors.New("transaction with this idempotency key already exists")
)
