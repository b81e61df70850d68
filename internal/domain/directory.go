package domain

import (
	"context"
	"errors"
	"fmt"
)

// maxGenerateAttempts bounds the generate-and-insert loop in Register.
// Each attempt draws a fresh candidate account number; the store's unique
// constraint is the authority on collisions.
const maxGenerateAttempts = 5

// DirectoryService handles account creation and lookup, including the
// assignment of a unique account number.
type DirectoryService struct {
	accounts  AccountRepository
	generator NumberGenerator
}

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(accounts AccountRepository, generator NumberGenerator) *DirectoryService {
	return &DirectoryService{
		accounts:  accounts,
		generator: generator,
	}
}

// Register validates the registration input, allocates a unique account
// number and persists the new account with the initial deposit as its
// balance.
//
// The generator output is only a candidate: Register inserts it and relies
// on the store's unique constraint to detect a collision, regenerating up
// to maxGenerateAttempts times before giving up with ErrIdentifierExhausted.
func (s *DirectoryService) Register(ctx context.Context, params RegisterParams) (*Account, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		account := NewAccount(s.generator.Generate(), params)

		err := s.accounts.Create(ctx, account)
		if err == nil {
			return account, nil
		}
		if errors.Is(err, ErrAccountNumberTaken) {
			continue
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return nil, ErrIdentifierExhausted
}

// Authenticate looks up the account matching both the account number and
// the phone number. It is a pure read with no side effects and returns only
// a minimal projection of the account.
func (s *DirectoryService) Authenticate(ctx context.Context, accountNumber, phone string) (*Profile, error) {
	if accountNumber == "" || phone == "" {
		return nil, ErrAccountNotFound
	}

	account, err := s.accounts.GetByNumberAndPhone(ctx, accountNumber, phone)
	if err != nil {
		if errors.Is(err, ErrAccountNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	return &Profile{
		FullName:      account.FullName,
		AccountNumber: account.AccountNumber,
	}, nil
}
