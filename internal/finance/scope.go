package finance

import (
	"errors"
	"fmt"
	"time"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// Scope restricts aggregation to a calendar period relative to "now".
type Scope string

const (
	ScopeAll          Scope = "all"
	ScopeCurrentMonth Scope = "currentMonth"
	ScopeCurrentYear  Scope = "currentYear"
)

// ErrInvalidScope indicates an unknown scope name.
var ErrInvalidScope = errors.New("scope must be all, currentMonth or currentYear")

// ParseScope maps a query value onto a Scope. Empty means ScopeAll.
func ParseScope(value string) (Scope, error) {
	switch Scope(value) {
	case "", ScopeAll:
		return ScopeAll, nil
	case ScopeCurrentMonth:
		return ScopeCurrentMonth, nil
	case ScopeCurrentYear:
		return ScopeCurrentYear, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidScope, value)
	}
}

// Contains reports whether date falls inside the scope as seen from now.
// Calendar fields are read in each value's own location.
func (s Scope) Contains(date, now time.Time) bool {
	switch s {
	case ScopeCurrentMonth:
		return date.Year() == now.Year() && date.Month() == now.Month()
	case ScopeCurrentYear:
		return date.Year() == now.Year()
	default:
		return true
	}
}

// Partition splits a snapshot into records fit for aggregation and a count
// of the ones rejected by Transaction.Validate. Input order is kept.
func Partition(txs []models.Transaction) ([]models.Transaction, int) {
	valid := make([]models.Transaction, 0, len(txs))
	skipped := 0
	for _, tx := range txs {
		if err := tx.Validate(); err != nil {
			skipped++
			continue
		}
		valid = append(valid, tx)
	}
	return valid, skipped
}
