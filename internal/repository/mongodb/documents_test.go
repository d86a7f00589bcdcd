package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

func sampleReport() models.FinanceReport {
	d := decimal.RequireFromString
	return models.FinanceReport{
		GeneratedAt: time.Date(2024, 4, 1, 20, 0, 0, 0, time.UTC),
		Year:        2024,
		Monthly: []models.MonthlyBucket{
			{Month: "Jan", Income: d("1000.50"), Expense: d("400.25"), Profit: d("600.25")},
			{Month: "Feb", Income: decimal.Zero, Expense: decimal.Zero, Profit: decimal.Zero},
		},
		Yearly: []models.YearlyBucket{{Year: 2024, Income: d("1000.50"), Expense: d("400.25"), Profit: d("600.25")}},
		ExpenseCategories: []models.CategoryShare{
			{Key: "seeds", Category: "Seeds", Amount: d("400.25"), Percentage: 100},
		},
		Summary: models.SummaryRatios{
			TotalIncome:        d("1000.50"),
			TotalExpense:       d("400.25"),
			NetProfit:          d("600.25"),
			IncomeRatioPercent: 71.4,
			AvgIncome:          d("1000.5"),
			AvgExpense:         d("400.25"),
		},
		CurrentMonth: models.PeriodTotals{Income: decimal.Zero, Expense: decimal.Zero, Profit: decimal.Zero},
		Skipped:      2,
	}
}

func TestReportDocumentRoundTrip(t *testing.T) {
	t.Parallel()

	in := sampleReport()
	doc, err := toReportDocument(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	raw, err := bson.Marshal(doc)
	if err != nil {
		t.Fatalf("bson marshal: %v", err)
	}
	var decoded reportDocument
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("bson unmarshal: %v", err)
	}

	out, err := decoded.toModel()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !out.GeneratedAt.Equal(in.GeneratedAt) || out.Year != in.Year || out.Skipped != in.Skipped {
		t.Fatalf("header mismatch: %+v", out)
	}
	if len(out.Monthly) != 2 || out.Monthly[0].Month != "Jan" || !out.Monthly[0].Income.Equal(in.Monthly[0].Income) {
		t.Fatalf("monthly mismatch: %+v", out.Monthly)
	}
	if !out.Monthly[1].Profit.IsZero() {
		t.Fatalf("expected zero February profit, got %s", out.Monthly[1].Profit)
	}
	if len(out.Yearly) != 1 || out.Yearly[0].Year != 2024 || !out.Yearly[0].Profit.Equal(in.Yearly[0].Profit) {
		t.Fatalf("yearly mismatch: %+v", out.Yearly)
	}
	if len(out.IncomeCategories) != 0 || len(out.ExpenseCategories) != 1 || out.ExpenseCategories[0].Category != "Seeds" {
		t.Fatalf("category mismatch: %+v / %+v", out.IncomeCategories, out.ExpenseCategories)
	}
	if !out.Summary.AvgIncome.Equal(in.Summary.AvgIncome) || out.Summary.IncomeRatioPercent != 71.4 {
		t.Fatalf("summary mismatch: %+v", out.Summary)
	}
}
