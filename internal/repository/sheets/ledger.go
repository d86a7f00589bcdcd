package sheets

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

const dateLayout = "2006-01-02"

// Ledger columns, left to right.
const (
	colDate = iota
	colType
	colCategory
	colAmount
	colDescription
	colFarmID
)

// ErrMalformedRow wraps every ledger row rejection.
var ErrMalformedRow = errors.New("malformed ledger row")

// LedgerRow is a transaction read from the spreadsheet with its 1-based row number.
type LedgerRow struct {
	Row         int
	Transaction models.Transaction
}

// RowError explains why a ledger row was rejected.
type RowError struct {
	Row int
	Err error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// ParseLedgerRows converts raw sheet values into transactions. A leading
// header row and blank rows are ignored; malformed rows are reported and
// left out rather than coerced.
func ParseLedgerRows(rows [][]interface{}) ([]LedgerRow, []RowError) {
	var parsed []LedgerRow
	var rejected []RowError

	for i, row := range rows {
		rowNumber := i + 1
		if isBlank(row) {
			continue
		}
		if i == 0 && isHeader(row) {
			continue
		}

		tx, err := parseLedgerRow(row)
		if err != nil {
			rejected = append(rejected, RowError{Row: rowNumber, Err: err})
			continue
		}
		parsed = append(parsed, LedgerRow{Row: rowNumber, Transaction: tx})
	}

	return parsed, rejected
}

// FormatLedgerRow renders a transaction in ledger column order.
func FormatLedgerRow(tx models.Transaction) []interface{} {
	farm := ""
	if tx.FarmID != nil {
		farm = strconv.FormatInt(*tx.FarmID, 10)
	}
	return []interface{}{
		tx.Date.Format(dateLayout),
		string(tx.Type),
		tx.Category,
		tx.Amount.StringFixed(2),
		tx.Description,
		farm,
	}
}

func parseLedgerRow(row []interface{}) (models.Transaction, error) {
	if len(row) <= colAmount {
		return models.Transaction{}, fmt.Errorf("%w: expected at least %d columns, got %d", ErrMalformedRow, colAmount+1, len(row))
	}

	date, err := parseDate(cell(row, colDate))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: date: %v", ErrMalformedRow, err)
	}

	typ, err := models.ParseTransactionType(cell(row, colType))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}

	amount, err := parseAmount(cell(row, colAmount))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: amount: %v", ErrMalformedRow, err)
	}

	tx := models.Transaction{
		Type:        typ,
		Category:    strings.TrimSpace(cell(row, colCategory)),
		Amount:      amount,
		Date:        date,
		Description: strings.TrimSpace(cell(row, colDescription)),
	}

	if raw := cell(row, colFarmID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return models.Transaction{}, fmt.Errorf("%w: farm id: %v", ErrMalformedRow, err)
		}
		tx.FarmID = &id
	}

	if err := tx.Validate(); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %v", ErrMalformedRow, err)
	}
	return tx, nil
}

func cell(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func isBlank(row []interface{}) bool {
	for i := range row {
		if cell(row, i) != "" {
			return false
		}
	}
	return true
}

func isHeader(row []interface{}) bool {
	return strings.EqualFold(cell(row, colDate), "date")
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if len(value) > len(dateLayout) {
		value = value[:len(dateLayout)]
	}
	return time.Parse(dateLayout, value)
}

func parseAmount(value string) (decimal.Decimal, error) {
	cleaned := strings.NewReplacer("$", "", ",", "", " ", "").Replace(value)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("empty numeric value")
	}
	return decimal.NewFromString(cleaned)
}
