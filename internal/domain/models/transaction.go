package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType tells whether money came in or went out.
type TransactionType string

const (
	TransactionIncome  TransactionType = "income"
	TransactionExpense TransactionType = "expense"
)

var (
	// ErrInvalidType indicates a transaction type other than income or expense.
	ErrInvalidType = errors.New("transaction type must be income or expense")
	// ErrNegativeAmount indicates an amount below zero; the sign lives in the type.
	ErrNegativeAmount = errors.New("transaction amount must not be negative")
	// ErrMissingDate indicates a zero transaction date.
	ErrMissingDate = errors.New("transaction date is required")
	// ErrMissingCategory indicates an empty category label.
	ErrMissingCategory = errors.New("transaction category is required")
)

// ParseTransactionType maps free text onto a TransactionType.
func ParseTransactionType(value string) (TransactionType, error) {
	switch TransactionType(strings.ToLower(strings.TrimSpace(value))) {
	case TransactionIncome:
		return TransactionIncome, nil
	case TransactionExpense:
		return TransactionExpense, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidType, value)
	}
}

// Valid reports whether t is one of the known types.
func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

// Transaction is a dated, typed and categorized money movement.
type Transaction struct {
	ID          int64           `json:"id"`
	FarmID      *int64          `json:"farmId,omitempty"`
	Type        TransactionType `json:"type"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Validate checks the record is fit for aggregation.
func (t Transaction) Validate() error {
	if !t.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, t.Type)
	}
	if t.Amount.IsNegative() {
		return ErrNegativeAmount
	}
	if t.Date.IsZero() {
		return ErrMissingDate
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrMissingCategory
	}
	return nil
}
