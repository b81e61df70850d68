// Package httpapi exposes the ledger over a JSON HTTP API. It is a thin
// shell: every handler validates shape, calls into a domain service and
// renders the result.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/AiswaryaS-IT/banking-website/internal/domain"
)

// Directory is the subset of the account directory the handlers need.
type Directory interface {
	Register(ctx context.Context, params domain.RegisterParams) (*domain.Account, error)
	Authenticate(ctx context.Context, accountNumber, phone string) (*domain.Profile, error)
}

// Ledger is the subset of the ledger engine the handlers need.
type Ledger interface {
	ApplyTransaction(ctx context.Context, accountNumber string, txType domain.TransactionType, amount decimal.Decimal, idempotencyKey string) (*domain.Receipt, error)
}

// Queries is the subset of the query service the handlers need.
type Queries interface {
	GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error)
	GetHistory(ctx context.Context, accountNumber string) ([]domain.TransactionRecord, error)
}

// Handler holds the HTTP handlers for all account and ledger operations.
type Handler struct {
	directory Directory
	ledger    Ledger
	queries   Queries
}

// NewHandler creates a new Handler.
func NewHandler(directory Directory, ledger Ledger, queries Queries) *Handler {
	return &Handler{
		directory: directory,
		ledger:    ledger,
		queries:   queries,
	}
}

type registerRequest struct {
	FullName    string          `json:"fullname"`
	Address     string          `json:"address"`
	Phone       string          `json:"phone"`
	Email       string          `json:"email"`
	AccountType string          `json:"account_type"`
	Deposit     decimal.Decimal `json:"deposit"`
}

type registerResponse struct {
	AccountNumber string `json:"account_number"`
	FullName      string `json:"fullname"`
	CreatedAt     string `json:"created_at"`
}

// Register handles POST /api/accounts.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}

	account, err := h.directory.Register(r.Context(), domain.RegisterParams{
		FullName:    req.FullName,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		AccountType: domain.AccountType(req.AccountType),
		Deposit:     req.Deposit,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		AccountNumber: account.AccountNumber,
		FullName:      account.FullName,
		CreatedAt:     account.CreatedAt.UTC().Format(time.RFC3339),
	})
}

type loginRequest struct {
	AccountNumber string `json:"account_number"`
	Phone         string `json:"phone"`
}

type loginResponse struct {
	FullName      string `json:"fullname"`
	AccountNumber string `json:"account_number"`
}

// Authenticate handles POST /api/sessions.
func (h *Handler) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}

	profile, err := h.directory.Authenticate(r.Context(), req.AccountNumber, req.Phone)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		FullName:      profile.FullName,
		AccountNumber: profile.AccountNumber,
	})
}

type balanceResponse struct {
	AccountNumber string          `json:"account_number"`
	Balance       decimal.Decimal `json:"balance"`
}

// GetBalance handles GET /api/accounts/{accountNumber}/balance.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	balance, err := h.queries.GetBalance(r.Context(), accountNumber)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, balanceResponse{
		AccountNumber: accountNumber,
		Balance:       balance,
	})
}

type transactionView struct {
	ID              string          `json:"id"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	BalanceAfter    decimal.Decimal `json:"balance_after"`
	CreatedAt       string          `json:"created_at"`
}

type historyResponse struct {
	Transactions []transactionView `json:"transactions"`
}

// GetHistory handles GET /api/accounts/{accountNumber}/transactions.
func (h *Handler) GetHistory(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	records, err := h.queries.GetHistory(r.Context(), accountNumber)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	views := make([]transactionView, 0, len(records))
	for _, record := range records {
		views = append(views, transactionView{
			ID:              record.ID.String(),
			TransactionType: string(record.Type),
			Amount:          record.Amount,
			BalanceAfter:    record.BalanceAfter,
			CreatedAt:       record.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	writeJSON(w, http.StatusOK, historyResponse{Transactions: views})
}

type applyTransactionRequest struct {
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
}

type applyTransactionResponse struct {
	TransactionID   string          `json:"transaction_id"`
	AccountNumber   string          `json:"account_number"`
	TransactionType string          `json:"transaction_type"`
	Amount          decimal.Decimal `json:"amount"`
	NewBalance      decimal.Decimal `json:"new_balance"`
	CreatedAt       string          `json:"created_at"`
}

// ApplyTransaction handles POST /api/accounts/{accountNumber}/transactions.
// An optional X-Idempotency-Key header makes resubmissions safe.
func (h *Handler) ApplyTransaction(w http.ResponseWriter, r *http.Request) {
	accountNumber := chi.URLParam(r, "accountNumber")

	var req applyTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST", "failed to parse request body")
		return
	}

	receipt, err := h.ledger.ApplyTransaction(
		r.Context(),
		accountNumber,
		domain.TransactionType(req.TransactionType),
		req.Amount,
		r.Header.Get("X-Idempotency-Key"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, applyTransactionResponse{
		TransactionID:   receipt.TransactionID.String(),
		AccountNumber:   receipt.AccountNumber,
		TransactionType: string(receipt.Type),
		Amount:          receipt.Amount,
		NewBalance:      receipt.NewBalance,
		CreatedAt:       receipt.CreatedAt.UTC().Format(time.RFC3339),
	})
}
