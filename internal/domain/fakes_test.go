package domain_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AiswaryaS-IT/banking-website/internal/domain"
)

// fakeAccountRepo is an in-memory implementation of domain.AccountRepository.
type fakeAccountRepo struct {
	byNumber  map[string]*domain.Account
	createErr error
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byNumber: make(map[string]*domain.Account)}
}

func (f *fakeAccountRepo) Create(_ context.Context, account *domain.Account) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, exists := f.byNumber[account.AccountNumber]; exists {
		return domain.ErrAccountNumberTaken
	}
	cp := *account
	f.byNumber[account.AccountNumber] = &cp
	return nil
}

func (f *fakeAccountRepo) GetByNumber(_ context.Context, accountNumber string) (*domain.Account, error) {
	account, ok := f.byNumber[accountNumber]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (f *fakeAccountRepo) GetByNumberAndPhone(_ context.Context, accountNumber, phone string) (*domain.Account, error) {
	account, ok := f.byNumber[accountNumber]
	if !ok || account.Phone != phone {
		return nil, domain.ErrAccountNotFound
	}
	cp := *account
	return &cp, nil
}

func (f *fakeAccountRepo) LockByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	return f.GetByNumber(ctx, accountNumber)
}

func (f *fakeAccountRepo) UpdateBalance(_ context.Context, id uuid.UUID, balance decimal.Decimal, updatedAt time.Time) error {
	for _, account := range f.byNumber {
		if account.ID == id {
			account.Balance = balance
			account.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrAccountNotFound
}

// fakeTransactionRepo is an in-memory implementation of
// domain.TransactionRepository. Records are kept in insertion order.
type fakeTransactionRepo struct {
	records   []domain.TransactionRecord
	createErr error
}

func (f *fakeTransactionRepo) Create(_ context.Context, record *domain.TransactionRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	if record.IdempotencyKey != "" {
		for _, existing := range f.records {
			if existing.AccountID == record.AccountID && existing.IdempotencyKey == record.IdempotencyKey {
				return domain.ErrDuplicateTransaction
			}
		}
	}
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeTransactionRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]domain.TransactionRecord, error) {
	out := make([]domain.TransactionRecord, 0)
	for _, record := range f.records {
		if record.AccountID == accountID {
			out = append(out, record)
		}
	}
	return out, nil
}

func (f *fakeTransactionRepo) GetByIdempotencyKey(_ context.Context, accountID uuid.UUID, key string) (*domain.TransactionRecord, error) {
	for _, record := range f.records {
		if record.AccountID == accountID && record.IdempotencyKey == key {
			cp := record
			return &cp, nil
		}
	}
	return nil, nil
}

// fakeTxManager runs the function directly; atomicity is covered by the
// integration tests against a real database.
type fakeTxManager struct{}

func (fakeTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakePublisher captures published receipts on a channel so tests can wait
// for the asynchronous publish.
type fakePublisher struct {
	receipts chan *domain.Receipt
}

func newFakePublisher() *fakePublisher {
	return &fakePublisher{receipts: make(chan *domain.Receipt, 8)}
}

func (f *fakePublisher) PublishTransactionApplied(_ context.Context, receipt *domain.Receipt) error {
	f.receipts <- receipt
	return nil
}

// seqGenerator returns a fixed sequence of account number candidates,
// repeating the last one when exhausted.
type seqGenerator struct {
	numbers []string
	next    int
}

func (g *seqGenerator) Generate() string {
	if g.next < len(g.numbers)-1 {
		n := g.numbers[g.next]
		g.next++
		return n
	}
	return g.numbers[len(g.numbers)-1]
}

// registerParams returns a valid set of registration parameters.
func registerParams(deposit string) domain.RegisterParams {
	return domain.RegisterParams{
		FullName:    "Asha Nair",
		Address:     "12 Marine Drive, Kochi",
		Phone:       "9876543210",
		Email:       "asha@example.com",
		AccountType: domain.AccountTypeSavings,
		Deposit:     decimal.RequireFromString(deposit),
	}
}
