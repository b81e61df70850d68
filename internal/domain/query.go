package domain

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// QueryService provides read-only projections of account state. It reads
// the same store the ledger writes to and never mutates anything.
type QueryService struct {
	accounts     AccountRepository
	transactions TransactionRepository
}

// NewQueryService creates a new QueryService.
func NewQueryService(accounts AccountRepository, transactions TransactionRepository) *QueryService {
	return &QueryService{
		accounts:     accounts,
		transactions: transactions,
	}
}

// GetBalance returns the current balance of the account.
func (s *QueryService) GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	account, err := s.accounts.GetByNumber(ctx, accountNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// GetHistory returns every transaction record of the account ordered by
// application time ascending. An existing account with no transactions
// yields an empty slice; an absent account yields ErrAccountNotFound.
func (s *QueryService) GetHistory(ctx context.Context, accountNumber string) ([]TransactionRecord, error) {
	account, err := s.accounts.GetByNumber(ctx, accountNumber)
	if err != nil {
		return nil, err
	}

	records, err := s.transactions.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return records, nil
}
