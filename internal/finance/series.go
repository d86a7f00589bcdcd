// Package finance turns transaction snapshots into time-bucketed summaries,
// category breakdowns and ratios.
//
// Every function is pure: it reads the slice it is given, never mutates it,
// and recomputes from scratch on each call. Records failing
// models.Transaction.Validate are skipped rather than coerced.
package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// BuildMonthlySeries returns twelve buckets, January to December, with the
// income, expense and profit of the given year. Months without records are
// zero; records from other years are ignored.
func BuildMonthlySeries(txs []models.Transaction, year int) []models.MonthlyBucket {
	valid, _ := Partition(txs)

	var income, expense [12]decimal.Decimal
	for i := range income {
		income[i] = decimal.Zero
		expense[i] = decimal.Zero
	}

	for _, tx := range valid {
		if tx.Date.Year() != year {
			continue
		}
		idx := int(tx.Date.Month()) - 1
		switch tx.Type {
		case models.TransactionIncome:
			income[idx] = income[idx].Add(tx.Amount)
		case models.TransactionExpense:
			expense[idx] = expense[idx].Add(tx.Amount)
		}
	}

	buckets := make([]models.MonthlyBucket, 12)
	for i := range buckets {
		buckets[i] = models.MonthlyBucket{
			Month:   monthLabel(time.Month(i + 1)),
			Income:  income[i],
			Expense: expense[i],
			Profit:  income[i].Sub(expense[i]),
		}
	}
	return buckets
}

// BuildYearlySeries groups records by calendar year, ascending. Only years
// present in the data appear.
func BuildYearlySeries(txs []models.Transaction) []models.YearlyBucket {
	valid, _ := Partition(txs)

	byYear := make(map[int]*models.YearlyBucket)
	for _, tx := range valid {
		year := tx.Date.Year()
		bucket, ok := byYear[year]
		if !ok {
			bucket = &models.YearlyBucket{Year: year, Income: decimal.Zero, Expense: decimal.Zero}
			byYear[year] = bucket
		}
		switch tx.Type {
		case models.TransactionIncome:
			bucket.Income = bucket.Income.Add(tx.Amount)
		case models.TransactionExpense:
			bucket.Expense = bucket.Expense.Add(tx.Amount)
		}
	}

	series := make([]models.YearlyBucket, 0, len(byYear))
	for _, bucket := range byYear {
		bucket.Profit = bucket.Income.Sub(bucket.Expense)
		series = append(series, *bucket)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Year < series[j].Year })
	return series
}

// ComputePeriodTotals sums income and expense inside scope as seen from now.
func ComputePeriodTotals(txs []models.Transaction, scope Scope, now time.Time) models.PeriodTotals {
	valid, _ := Partition(txs)

	totals := models.PeriodTotals{Income: decimal.Zero, Expense: decimal.Zero}
	for _, tx := range valid {
		if !scope.Contains(tx.Date, now) {
			continue
		}
		switch tx.Type {
		case models.TransactionIncome:
			totals.Income = totals.Income.Add(tx.Amount)
		case models.TransactionExpense:
			totals.Expense = totals.Expense.Add(tx.Amount)
		}
		totals.Count++
	}
	totals.Profit = totals.Income.Sub(totals.Expense)
	return totals
}

func monthLabel(m time.Month) string {
	return m.String()[:3]
}
