package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MonthlyBucket holds the totals of one calendar month.
type MonthlyBucket struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// YearlyBucket holds the totals of one calendar year.
type YearlyBucket struct {
	Year    int             `json:"year"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
}

// CategoryShare is a category total and its share of the filtered total.
// Key is the raw category label used for grouping; Category is its display form.
type CategoryShare struct {
	Key        string          `json:"key"`
	Category   string          `json:"category"`
	Amount     decimal.Decimal `json:"amount"`
	Percentage float64         `json:"percentage"`
}

// SummaryRatios are derived from the whole transaction snapshot.
type SummaryRatios struct {
	TotalIncome        decimal.Decimal `json:"totalIncome"`
	TotalExpense       decimal.Decimal `json:"totalExpense"`
	NetProfit          decimal.Decimal `json:"netProfit"`
	IncomeRatioPercent float64         `json:"incomeRatioPercent"`
	AvgIncome          decimal.Decimal `json:"avgIncome"`
	AvgExpense         decimal.Decimal `json:"avgExpense"`
}

// PeriodTotals sums one scoped period.
type PeriodTotals struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Profit  decimal.Decimal `json:"profit"`
	Count   int             `json:"count"`
}

// FinanceReport bundles every summary computed from one snapshot.
type FinanceReport struct {
	GeneratedAt       time.Time       `json:"generatedAt"`
	Year              int             `json:"year"`
	Monthly           []MonthlyBucket `json:"monthly"`
	Yearly            []YearlyBucket  `json:"yearly"`
	IncomeCategories  []CategoryShare `json:"incomeCategories"`
	ExpenseCategories []CategoryShare `json:"expenseCategories"`
	Summary           SummaryRatios   `json:"summary"`
	CurrentMonth      PeriodTotals    `json:"currentMonth"`
	Skipped           int             `json:"skipped"`
}

// Dashboard is the landing page overview.
type Dashboard struct {
	Farms        int          `json:"farms"`
	ActiveCrops  int          `json:"activeCrops"`
	PendingTasks int          `json:"pendingTasks"`
	OverdueTasks int          `json:"overdueTasks"`
	CurrentMonth PeriodTotals `json:"currentMonth"`
}
