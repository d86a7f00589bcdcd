package sheets

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

func TestParseLedgerRows(t *testing.T) {
	t.Parallel()

	rows := [][]interface{}{
		{"Date", "Type", "Category", "Amount", "Description", "Farm"},
		{"2024-03-15", "income", "crop-sales", "1,000.50", "corn", "2"},
		{"2024-03-20T00:00:00Z", "Expense", "seeds", "$400"},
		{},
		{"not-a-date", "income", "crop-sales", "10"},
		{"2024-03-21", "refund", "other", "10"},
		{"2024-03-22", "expense", "fuel", "ten"},
		{"2024-03-23", "expense", "fuel", "-3"},
		{"2024-03-24", "expense"},
		{"2024-03-25", "expense", "", "5"},
	}

	parsed, rejected := ParseLedgerRows(rows)
	if len(parsed) != 2 {
		t.Fatalf("expected 2 parsed rows, got %d", len(parsed))
	}

	first := parsed[0]
	if first.Row != 2 || first.Transaction.Type != models.TransactionIncome || first.Transaction.Category != "crop-sales" {
		t.Fatalf("unexpected first row %+v", first)
	}
	if !first.Transaction.Amount.Equal(decimal.RequireFromString("1000.50")) {
		t.Fatalf("unexpected amount %s", first.Transaction.Amount)
	}
	if first.Transaction.FarmID == nil || *first.Transaction.FarmID != 2 {
		t.Fatalf("expected farm id 2, got %v", first.Transaction.FarmID)
	}
	if parsed[1].Transaction.Type != models.TransactionExpense || parsed[1].Transaction.Date.Day() != 20 {
		t.Fatalf("unexpected second row %+v", parsed[1])
	}

	wantRejected := []int{5, 6, 7, 8, 9, 10}
	if len(rejected) != len(wantRejected) {
		t.Fatalf("expected %d rejected rows, got %v", len(wantRejected), rejected)
	}
	for i, row := range wantRejected {
		if rejected[i].Row != row {
			t.Fatalf("rejected[%d].Row = %d, want %d", i, rejected[i].Row, row)
		}
		if !errors.Is(rejected[i], ErrMalformedRow) {
			t.Fatalf("rejected row %d does not wrap ErrMalformedRow: %v", row, rejected[i])
		}
	}
}

func TestFormatLedgerRowRoundTrip(t *testing.T) {
	t.Parallel()

	farm := int64(3)
	tx := models.Transaction{
		Type:        models.TransactionExpense,
		Category:    "fertilizer",
		Amount:      decimal.RequireFromString("75.5"),
		Date:        mustDate(t, "2024-06-01"),
		Description: "urea",
		FarmID:      &farm,
	}

	row := FormatLedgerRow(tx)
	if row[3] != "75.50" {
		t.Fatalf("amount cell = %v, want 75.50", row[3])
	}

	parsed, rejected := ParseLedgerRows([][]interface{}{row})
	if len(rejected) != 0 || len(parsed) != 1 {
		t.Fatalf("round trip failed: %v", rejected)
	}
	got := parsed[0].Transaction
	if got.Category != tx.Category || !got.Amount.Equal(tx.Amount) || !got.Date.Equal(tx.Date) || *got.FarmID != farm {
		t.Fatalf("round trip mismatch %+v", got)
	}
}

func mustDate(t *testing.T, s string) (d time.Time) {
	t.Helper()
	d, err := parseDate(s)
	if err != nil {
		t.Fatalf("parse %s: %v", s, err)
	}
	return d
}
