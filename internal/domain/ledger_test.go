package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AiswaryaS-IT/banking-website/internal/domain"
)

func newLedgerFixture(t *testing.T, balance string) (*domain.LedgerService, *fakeAccountRepo, *fakeTransactionRepo) {
	t.Helper()
	accounts := newFakeAccountRepo()
	seedAccount(t, accounts, "an-2001", "9876543210")
	accounts.byNumber["an-2001"].Balance = decimal.RequireFromString(balance)

	transactions := &fakeTransactionRepo{}
	ledger := domain.NewLedgerService(accounts, transactions, fakeTxManager{}, nil)
	return ledger, accounts, transactions
}

func TestApplyTransaction_CreditThenDebit(t *testing.T) {
	ledger, accounts, transactions := newLedgerFixture(t, "100")
	ctx := context.Background()

	credit, err := ledger.ApplyTransaction(ctx, "an-2001", domain.TransactionTypeCredit, decimal.RequireFromString("50"), "")
	if err != nil {
		t.Fatalf("Credit failed: %v", err)
	}
	if !credit.NewBalance.Equal(decimal.RequireFromString("150")) {
		t.Errorf("expected balance 150 after credit, got %s", credit.NewBalance)
	}

	debit, err := ledger.ApplyTransaction(ctx, "an-2001", domain.TransactionTypeDebit, decimal.RequireFromString("30"), "")
	if err != nil {
		t.Fatalf("Debit failed: %v", err)
	}
	if !debit.NewBalance.Equal(decimal.RequireFromString("120")) {
		t.Errorf("expected balance 120 after debit, got %s", debit.NewBalance)
	}

	account, err := accounts.GetByNumber(ctx, "an-2001")
	if err != nil {
		t.Fatalf("GetByNumber failed: %v", err)
	}
	if !account.Balance.Equal(decimal.RequireFromString("120")) {
		t.Errorf("expected stored balance 120, got %s", account.Balance)
	}

	if len(transactions.records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(transactions.records))
	}
	if transactions.records[0].Type != domain.TransactionTypeCredit || !transactions.records[0].Amount.Equal(decimal.RequireFromString("50")) {
		t.Errorf("unexpected first record: %+v", transactions.records[0])
	}
	if transactions.records[1].Type != domain.TransactionTypeDebit || !transactions.records[1].Amount.Equal(decimal.RequireFromString("30")) {
		t.Errorf("unexpected second record: %+v", transactions.records[1])
	}
	if !transactions.records[1].BalanceAfter.Equal(decimal.RequireFromString("120")) {
		t.Errorf("expected balance_after 120, got %s", transactions.records[1].BalanceAfter)
	}
}

func TestApplyTransaction_UnknownAccount(t *testing.T) {
	ledger, _, transactions := newLedgerFixture(t, "100")

	_, err := ledger.ApplyTransaction(context.Background(), "missing", domain.TransactionTypeCredit, decimal.RequireFromString("10"), "")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if len(transactions.records) != 0 {
		t.Error("no record may be created for an unknown account")
	}
}

func TestApplyTransaction_InvalidType(t *testing.T) {
	ledger, accounts, transactions := newLedgerFixture(t, "100")

	_, err := ledger.ApplyTransaction(context.Background(), "an-2001", "Transfer", decimal.RequireFromString("10"), "")
	if !errors.Is(err, domain.ErrInvalidTransactionType) {
		t.Fatalf("expected ErrInvalidTransactionType, got %v", err)
	}

	account, _ := accounts.GetByNumber(context.Background(), "an-2001")
	if !account.Balance.Equal(decimal.RequireFromString("100")) {
		t.Errorf("balance changed on rejected transaction: %s", account.Balance)
	}
	if len(transactions.records) != 0 {
		t.Error("no record may be created for an invalid type")
	}
}

func TestApplyTransaction_InvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-5"},
		{"three decimal places", "1.005"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ledger, _, transactions := newLedgerFixture(t, "100")

			_, err := ledger.ApplyTransaction(context.Background(), "an-2001", domain.TransactionTypeCredit, decimal.RequireFromString(tt.amount), "")
			if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Fatalf("expected ErrInvalidAmount, got %v", err)
			}
			if len(transactions.records) != 0 {
				t.Error("no record may be created for an invalid amount")
			}
		})
	}
}

func TestApplyTransaction_InsufficientFunds(t *testing.T) {
	ledger, accounts, transactions := newLedgerFixture(t, "100")

	_, err := ledger.ApplyTransaction(context.Background(), "an-2001", domain.TransactionTypeDebit, decimal.RequireFromString("100.01"), "")
	if !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}

	account, _ := accounts.GetByNumber(context.Background(), "an-2001")
	if !account.Balance.Equal(decimal.RequireFromString("100")) {
		t.Errorf("balance changed on rejected debit: %s", account.Balance)
	}
	if len(transactions.records) != 0 {
		t.Error("no record may be created for a rejected debit")
	}
}

func TestApplyTransaction_DebitToExactlyZero(t *testing.T) {
	ledger, _, _ := newLedgerFixture(t, "100")

	receipt, err := ledger.ApplyTransaction(context.Background(), "an-2001", domain.TransactionTypeDebit, decimal.RequireFromString("100"), "")
	if err != nil {
		t.Fatalf("debit to zero must be allowed: %v", err)
	}
	if !receipt.NewBalance.IsZero() {
		t.Errorf("expected zero balance, got %s", receipt.NewBalance)
	}
}

func TestApplyTransaction_RecordFailureLeavesBalanceUntouched(t *testing.T) {
	ledger, accounts, transactions := newLedgerFixture(t, "100")
	transactions.createErr = errors.New("disk full")

	_, err := ledger.ApplyTransaction(context.Background(), "an-2001", domain.TransactionTypeCredit, decimal.RequireFromString("50"), "")
	if err == nil {
		t.Fatal("expected error when the record cannot be appended")
	}

	account, _ := accounts.GetByNumber(context.Background(), "an-2001")
	if !account.Balance.Equal(decimal.RequireFromString("100")) {
		t.Errorf("balance must not change when the record insert fails, got %s", account.Balance)
	}
}

func TestApplyTransaction_IdempotentReplay(t *testing.T) {
	ledger, accounts, transactions := newLedgerFixture(t, "100")
	ctx := context.Background()

	first, err := ledger.ApplyTransaction(ctx, "an-2001", domain.TransactionTypeCredit, decimal.RequireFromString("50"), "req-42")
	if err != nil {
		t.Fatalf("first apply failed: %v", err)
	}

	second, err := ledger.ApplyTransaction(ctx, "an-2001", domain.TransactionTypeCredit, decimal.RequireFromString("50"), "req-42")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}

	if second.TransactionID != first.TransactionID {
		t.Errorf("replay returned a different transaction: %s vs %s", second.TransactionID, first.TransactionID)
	}
	if !second.NewBalance.Equal(first.NewBalance) {
		t.Errorf("replay returned a different balance: %s vs %s", second.NewBalance, first.NewBalance)
	}

	account, _ := accounts.GetByNumber(ctx, "an-2001")
	if !account.Balance.Equal(decimal.RequireFromString("150")) {
		t.Errorf("replay double-applied: balance %s", account.Balance)
	}
	if len(transactions.records) != 1 {
		t.Errorf("expected a single record, got %d", len(transactions.records))
	}
}

func TestApplyTransaction_IdempotencyKeyScopedPerAccount(t *testing.T) {
	ledger, accounts, transactions := newLedgerFixture(t, "100")
	ctx := context.Background()

	seedAccount(t, accounts, "an-2002", "9123456780")
	accounts.byNumber["an-2002"].Balance = decimal.RequireFromString("500")

	first, err := ledger.ApplyTransaction(ctx, "an-2001", domain.TransactionTypeCredit, decimal.RequireFromString("50"), "shared-key")
	if err != nil {
		t.Fatalf("first apply failed: %v", err)
	}

	// The same key on a different account names a different transaction
	// and must apply normally, not replay the first account's record.
	second, err := ledger.ApplyTransaction(ctx, "an-2002", domain.TransactionTypeCredit, decimal.RequireFromString("200"), "shared-key")
	if err != nil {
		t.Fatalf("apply on second account failed: %v", err)
	}

	if second.TransactionID == first.TransactionID {
		t.Error("key reuse across accounts replayed a foreign transaction")
	}
	if second.AccountNumber != "an-2002" {
		t.Errorf("expected receipt for an-2002, got %s", second.AccountNumber)
	}
	if !second.Amount.Equal(decimal.RequireFromString("200")) {
		t.Errorf("expected amount 200, got %s", second.Amount)
	}
	if !second.NewBalance.Equal(decimal.RequireFromString("700")) {
		t.Errorf("expected balance 700, got %s", second.NewBalance)
	}

	account, _ := accounts.GetByNumber(ctx, "an-2002")
	if !account.Balance.Equal(decimal.RequireFromString("700")) {
		t.Errorf("second account's credit was dropped: balance %s", account.Balance)
	}
	if len(transactions.records) != 2 {
		t.Fatalf("expected one record per account, got %d", len(transactions.records))
	}

	// Replay on the original account still returns the original record.
	replay, err := ledger.ApplyTransaction(ctx, "an-2001", domain.TransactionTypeCredit, decimal.RequireFromString("50"), "shared-key")
	if err != nil {
		t.Fatalf("replay failed: %v", err)
	}
	if replay.TransactionID != first.TransactionID {
		t.Errorf("replay returned a different transaction: %s vs %s", replay.TransactionID, first.TransactionID)
	}
}

func TestApplyTransaction_UnknownAccountWithInvalidInput(t *testing.T) {
	ledger, _, _ := newLedgerFixture(t, "100")

	// The account is resolved before the rest of the input is checked, so
	// an unknown account wins over a bad type or amount.
	_, err := ledger.ApplyTransaction(context.Background(), "missing", "Transfer", decimal.RequireFromString("-5"), "")
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestApplyTransaction_PublishesEvent(t *testing.T) {
	accounts := newFakeAccountRepo()
	seedAccount(t, accounts, "an-2001", "9876543210")
	accounts.byNumber["an-2001"].Balance = decimal.RequireFromString("100")

	transactions := &fakeTransactionRepo{}
	publisher := newFakePublisher()
	ledger := domain.NewLedgerService(accounts, transactions, fakeTxManager{}, publisher)

	receipt, err := ledger.ApplyTransaction(context.Background(), "an-2001", domain.TransactionTypeCredit, decimal.RequireFromString("25"), "")
	if err != nil {
		t.Fatalf("ApplyTransaction failed: %v", err)
	}

	select {
	case published := <-publisher.receipts:
		if published.TransactionID != receipt.TransactionID {
			t.Errorf("published receipt mismatch: %s vs %s", published.TransactionID, receipt.TransactionID)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for published event")
	}
}
