package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

type fakeSheet struct {
	rows    [][]interface{}
	readErr error
	written [][]interface{}
}

func (f *fakeSheet) ReadRange(context.Context, string) ([][]interface{}, error) {
	return f.rows, f.readErr
}

func (f *fakeSheet) WriteRow(_ context.Context, _ string, values []interface{}) error {
	f.written = append(f.written, values)
	f.rows = append(f.rows, values)
	return nil
}

type fakeCreator struct {
	created []models.Transaction
	refuse  string
}

func (f *fakeCreator) CreateTransaction(_ context.Context, tx models.Transaction) (models.Transaction, error) {
	if tx.Category == f.refuse {
		return models.Transaction{}, errors.New("validation failed")
	}
	tx.ID = int64(len(f.created) + 1)
	f.created = append(f.created, tx)
	return tx, nil
}

func TestSyncImportsOnlyNewRows(t *testing.T) {
	t.Parallel()
	sheet := &fakeSheet{rows: [][]interface{}{
		{"Date", "Type", "Category", "Amount", "Description", "Farm"},
		{"2024-03-01", "income", "crop-sales", "1,000.00", "Corn", ""},
		{"2024-03-02", "expense", "feed", "abc", "", ""},
		{"2024-03-03", "expense", "fuel", "80", "", "1"},
	}}
	creator := &fakeCreator{}
	imp := NewImporter(sheet, creator, "Transactions!A:F", nil)

	res, err := imp.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Imported != 2 || res.Rejected != 1 || res.LastRow != 4 {
		t.Fatalf("unexpected first sync result: %+v", res)
	}
	if !creator.created[0].Amount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("expected amount 1000, got %s", creator.created[0].Amount)
	}
	if creator.created[1].FarmID == nil || *creator.created[1].FarmID != 1 {
		t.Fatalf("expected farm id 1 on fuel row")
	}

	sheet.rows = append(sheet.rows, []interface{}{"2024-03-04", "income", "eggs", "45", "", ""})
	res, err = imp.Sync(context.Background())
	if err != nil {
		t.Fatalf("second sync: %v", err)
	}
	if res.Imported != 1 || res.Rejected != 0 || res.LastRow != 5 {
		t.Fatalf("unexpected second sync result: %+v", res)
	}
	if len(creator.created) != 3 {
		t.Fatalf("expected 3 created transactions, got %d", len(creator.created))
	}
}

func TestSyncCountsStoreRefusals(t *testing.T) {
	t.Parallel()
	sheet := &fakeSheet{rows: [][]interface{}{
		{"2024-03-01", "income", "crop-sales", "10", "", ""},
		{"2024-03-01", "income", "blocked", "10", "", ""},
	}}
	imp := NewImporter(sheet, &fakeCreator{refuse: "blocked"}, "Transactions!A:F", nil)

	res, err := imp.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Imported != 1 || res.Rejected != 1 || res.LastRow != 2 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestSyncReadError(t *testing.T) {
	t.Parallel()
	imp := NewImporter(&fakeSheet{readErr: errors.New("quota")}, &fakeCreator{}, "Transactions!A:F", nil)
	if _, err := imp.Sync(context.Background()); err == nil {
		t.Fatal("expected read error")
	}
}

func TestExportedRowsAreNotReimported(t *testing.T) {
	t.Parallel()
	sheet := &fakeSheet{}
	creator := &fakeCreator{}
	imp := NewImporter(sheet, creator, "Transactions!A:F", nil)

	tx := models.Transaction{
		Type:     models.TransactionExpense,
		Category: "feed",
		Amount:   decimal.RequireFromString("12.5"),
		Date:     time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC),
	}
	if err := imp.Export(context.Background(), tx); err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(sheet.written) != 1 || sheet.written[0][3] != "12.50" {
		t.Fatalf("unexpected written row: %v", sheet.written)
	}

	res, err := imp.Sync(context.Background())
	if err != nil {
		t.Fatalf("sync: %v", err)
	}
	if res.Imported != 0 || len(creator.created) != 0 || res.LastRow != 1 {
		t.Fatalf("exported row was imported again: %+v", res)
	}
}
