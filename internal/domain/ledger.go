package domain

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerService is the only write path for account balances and
// transaction records. It coordinates repositories to apply each
// transaction atomically.
type LedgerService struct {
	accounts     AccountRepository
	transactions TransactionRepository
	txManager    TransactionManager
	// Optional publisher for applied-transaction events; nil disables publishing.
	publisher EventPublisher
}

// NewLedgerService creates a new LedgerService.
// Pass nil for publisher if no events should be emitted.
func NewLedgerService(
	accounts AccountRepository,
	transactions TransactionRepository,
	txManager TransactionManager,
	publisher EventPublisher,
) *LedgerService {
	return &LedgerService{
		accounts:     accounts,
		transactions: transactions,
		txManager:    txManager,
		publisher:    publisher,
	}
}

// ApplyTransaction applies a Credit or Debit to the account identified by
// accountNumber and appends a record of it to the transaction log.
//
// The mutation is executed as one atomic unit:
//  1. Lock the account row to serialize concurrent applies on the same account
//  2. Compute the new balance; reject a debit that would drive it negative
//  3. Append the transaction record
//  4. Update the account balance
//
// Either both the record and the balance update persist, or neither does.
//
// When idempotencyKey is non-empty, a resubmission of the same key for the
// same account returns the receipt of the original application instead of
// applying again. Keys are scoped per account, so the same key on another
// account names an independent transaction.
func (s *LedgerService) ApplyTransaction(
	ctx context.Context,
	accountNumber string,
	txType TransactionType,
	amount decimal.Decimal,
	idempotencyKey string,
) (*Receipt, error) {
	// Resolve the account before anything else so an unknown account is
	// reported as not found even when the rest of the input is bad too.
	resolved, err := s.accounts.GetByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to resolve account: %w", err)
	}

	if _, err := ParseTransactionType(string(txType)); err != nil {
		return nil, err
	}
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	if idempotencyKey != "" {
		existing, err := s.transactions.GetByIdempotencyKey(ctx, resolved.ID, idempotencyKey)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
		if existing != nil {
			return receiptFor(accountNumber, existing), nil
		}
	}

	var receipt *Receipt
	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		account, err := s.accounts.LockByNumber(txCtx, accountNumber)
		if err != nil {
			if errors.Is(err, ErrAccountNotFound) {
				return ErrAccountNotFound
			}
			return fmt.Errorf("failed to lock account: %w", err)
		}

		newBalance := account.Balance.Add(amount)
		if txType == TransactionTypeDebit {
			newBalance = account.Balance.Sub(amount)
			if newBalance.IsNegative() {
				return ErrInsufficientFunds
			}
		}

		record := NewTransactionRecord(account.ID, txType, amount, newBalance, idempotencyKey)
		if err := s.transactions.Create(txCtx, record); err != nil {
			return fmt.Errorf("failed to append transaction record: %w", err)
		}

		if err := s.accounts.UpdateBalance(txCtx, account.ID, newBalance, record.CreatedAt); err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		receipt = &Receipt{
			TransactionID: record.ID,
			AccountNumber: account.AccountNumber,
			Type:          txType,
			Amount:        amount,
			NewBalance:    newBalance,
			CreatedAt:     record.CreatedAt,
		}
		return nil
	})

	if errors.Is(err, ErrDuplicateTransaction) && idempotencyKey != "" {
		// Lost the race against a concurrent submission with the same key;
		// the committed record is the authoritative result.
		existing, getErr := s.transactions.GetByIdempotencyKey(ctx, resolved.ID, idempotencyKey)
		if getErr == nil && existing != nil {
			return receiptFor(accountNumber, existing), nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	// Publishing happens after commit and is best-effort: a broker outage
	// must not make an already-committed transaction look failed.
	if s.publisher != nil {
		go func(r *Receipt) {
			pubCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.publisher.PublishTransactionApplied(pubCtx, r); err != nil {
				log.Printf("warning: failed to publish transaction applied event: %v", err)
			}
		}(receipt)
	}

	return receipt, nil
}

// receiptFor rebuilds the receipt of an already-applied transaction record.
func receiptFor(accountNumber string, record *TransactionRecord) *Receipt {
	return &Receipt{
		TransactionID: record.ID,
		AccountNumber: accountNumber,
		Type:          record.Type,
		Amount:        record.Amount,
		NewBalance:    record.BalanceAfter,
		CreatedAt:     record.CreatedAt,
	}
}
