package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// RegisterParams carries the input of an account registration.
type RegisterParams struct {
	FullName    string
	Address     string
	Phone       string
	Email       string
	AccountType AccountType
	Deposit     decimal.Decimal
}

// Validate checks that every registration field is present and the initial
// deposit is a non-negative amount with at most two decimal places.
func (p RegisterParams) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"fullname", p.FullName},
		{"address", p.Address},
		{"phone", p.Phone},
		{"email", p.Email},
	}
	for _, f := range required {
		if f.value == "" {
			return fmt.Errorf("%w: %s is required", ErrValidation, f.name)
		}
	}

	if _, err := ParseAccountType(string(p.AccountType)); err != nil {
		return err
	}

	if p.Deposit.IsNegative() {
		return fmt.Errorf("%w: deposit must not be negative", ErrValidation)
	}
	if !hasValidScale(p.Deposit) {
		return fmt.Errorf("%w: deposit must have at most two decimal places", ErrValidation)
	}

	return nil
}

// ValidateAmount checks that a transaction amount is strictly positive with
// at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !hasValidScale(amount) {
		return fmt.Errorf("%w: at most two decimal places", ErrInvalidAmount)
	}
	return nil
}

// hasValidScale reports whether the amount fits the store's NUMERIC(15,2)
// representation without rounding.
func hasValidScale(amount decimal.Decimal) bool {
	return amount.Equal(amount.Round(2))
}
