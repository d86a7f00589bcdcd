package finance

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// ComputeSummaryRatios derives all-time totals, the income ratio and the
// average transaction size per type. Empty denominators yield zero.
func ComputeSummaryRatios(txs []models.Transaction) models.SummaryRatios {
	valid, _ := Partition(txs)

	income, expense := decimal.Zero, decimal.Zero
	var incomeCount, expenseCount int64

	for _, tx := range valid {
		switch tx.Type {
		case models.TransactionIncome:
			income = income.Add(tx.Amount)
			incomeCount++
		case models.TransactionExpense:
			expense = expense.Add(tx.Amount)
			expenseCount++
		}
	}

	return models.SummaryRatios{
		TotalIncome:        income,
		TotalExpense:       expense,
		NetProfit:          income.Sub(expense),
		IncomeRatioPercent: percentOf(income, income.Add(expense)),
		AvgIncome:          average(income, incomeCount),
		AvgExpense:         average(expense, expenseCount),
	}
}

// BuildReport computes every summary from one snapshot. The monthly series
// covers year; scoped figures are relative to now.
func BuildReport(txs []models.Transaction, now time.Time, year int) models.FinanceReport {
	valid, skipped := Partition(txs)

	return models.FinanceReport{
		GeneratedAt:       now,
		Year:              year,
		Monthly:           BuildMonthlySeries(valid, year),
		Yearly:            BuildYearlySeries(valid),
		IncomeCategories:  BuildCategoryBreakdown(valid, models.TransactionIncome, ScopeAll, now),
		ExpenseCategories: BuildCategoryBreakdown(valid, models.TransactionExpense, ScopeAll, now),
		Summary:           ComputeSummaryRatios(valid),
		CurrentMonth:      ComputePeriodTotals(valid, ScopeCurrentMonth, now),
		Skipped:           skipped,
	}
}

func average(total decimal.Decimal, count int64) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(count)).Round(2)
}
