package mongodb

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// Money is stored as Decimal128 so snapshots keep exact cents.

type reportDocument struct {
	GeneratedAt       time.Time          `bson:"generated_at"`
	Year              int                `bson:"year"`
	Monthly           []periodDocument   `bson:"monthly"`
	Yearly            []periodDocument   `bson:"yearly"`
	IncomeCategories  []categoryDocument `bson:"income_categories"`
	ExpenseCategories []categoryDocument `bson:"expense_categories"`
	Summary           summaryDocument    `bson:"summary"`
	CurrentMonth      periodDocument     `bson:"current_month"`
	Skipped           int                `bson:"skipped"`
}

type periodDocument struct {
	Label   string               `bson:"label,omitempty"`
	Year    int                  `bson:"year,omitempty"`
	Income  primitive.Decimal128 `bson:"income"`
	Expense primitive.Decimal128 `bson:"expense"`
	Profit  primitive.Decimal128 `bson:"profit"`
	Count   int                  `bson:"count,omitempty"`
}

type categoryDocument struct {
	Key        string               `bson:"key"`
	Category   string               `bson:"category"`
	Amount     primitive.Decimal128 `bson:"amount"`
	Percentage float64              `bson:"percentage"`
}

type summaryDocument struct {
	TotalIncome        primitive.Decimal128 `bson:"total_income"`
	TotalExpense       primitive.Decimal128 `bson:"total_expense"`
	NetProfit          primitive.Decimal128 `bson:"net_profit"`
	IncomeRatioPercent float64              `bson:"income_ratio_percent"`
	AvgIncome          primitive.Decimal128 `bson:"avg_income"`
	AvgExpense         primitive.Decimal128 `bson:"avg_expense"`
}

// moneyCodec accumulates the first conversion error so the mapping code
// stays linear.
type moneyCodec struct {
	err error
}

func (c *moneyCodec) encode(d decimal.Decimal) primitive.Decimal128 {
	if c.err != nil {
		return primitive.Decimal128{}
	}
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		c.err = fmt.Errorf("convert %s to decimal128: %w", d, err)
	}
	return v
}

func (c *moneyCodec) decode(v primitive.Decimal128) decimal.Decimal {
	if c.err != nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		c.err = fmt.Errorf("convert decimal128 %s: %w", v, err)
	}
	return d
}

func toReportDocument(r models.FinanceReport) (reportDocument, error) {
	var c moneyCodec

	doc := reportDocument{
		GeneratedAt: r.GeneratedAt.UTC(),
		Year:        r.Year,
		Skipped:     r.Skipped,
		Summary: summaryDocument{
			TotalIncome:        c.encode(r.Summary.TotalIncome),
			TotalExpense:       c.encode(r.Summary.TotalExpense),
			NetProfit:          c.encode(r.Summary.NetProfit),
			IncomeRatioPercent: r.Summary.IncomeRatioPercent,
			AvgIncome:          c.encode(r.Summary.AvgIncome),
			AvgExpense:         c.encode(r.Summary.AvgExpense),
		},
		CurrentMonth: periodDocument{
			Income:  c.encode(r.CurrentMonth.Income),
			Expense: c.encode(r.CurrentMonth.Expense),
			Profit:  c.encode(r.CurrentMonth.Profit),
			Count:   r.CurrentMonth.Count,
		},
	}

	for _, m := range r.Monthly {
		doc.Monthly = append(doc.Monthly, periodDocument{
			Label:   m.Month,
			Income:  c.encode(m.Income),
			Expense: c.encode(m.Expense),
			Profit:  c.encode(m.Profit),
		})
	}
	for _, y := range r.Yearly {
		doc.Yearly = append(doc.Yearly, periodDocument{
			Year:    y.Year,
			Income:  c.encode(y.Income),
			Expense: c.encode(y.Expense),
			Profit:  c.encode(y.Profit),
		})
	}
	doc.IncomeCategories = encodeShares(&c, r.IncomeCategories)
	doc.ExpenseCategories = encodeShares(&c, r.ExpenseCategories)

	return doc, c.err
}

func encodeShares(c *moneyCodec, shares []models.CategoryShare) []categoryDocument {
	docs := make([]categoryDocument, 0, len(shares))
	for _, s := range shares {
		docs = append(docs, categoryDocument{
			Key:        s.Key,
			Category:   s.Category,
			Amount:     c.encode(s.Amount),
			Percentage: s.Percentage,
		})
	}
	return docs
}

func (d reportDocument) toModel() (models.FinanceReport, error) {
	var c moneyCodec

	report := models.FinanceReport{
		GeneratedAt: d.GeneratedAt,
		Year:        d.Year,
		Skipped:     d.Skipped,
		Monthly:     make([]models.MonthlyBucket, 0, len(d.Monthly)),
		Yearly:      make([]models.YearlyBucket, 0, len(d.Yearly)),
		Summary: models.SummaryRatios{
			TotalIncome:        c.decode(d.Summary.TotalIncome),
			TotalExpense:       c.decode(d.Summary.TotalExpense),
			NetProfit:          c.decode(d.Summary.NetProfit),
			IncomeRatioPercent: d.Summary.IncomeRatioPercent,
			AvgIncome:          c.decode(d.Summary.AvgIncome),
			AvgExpense:         c.decode(d.Summary.AvgExpense),
		},
		CurrentMonth: models.PeriodTotals{
			Income:  c.decode(d.CurrentMonth.Income),
			Expense: c.decode(d.CurrentMonth.Expense),
			Profit:  c.decode(d.CurrentMonth.Profit),
			Count:   d.CurrentMonth.Count,
		},
	}

	for _, m := range d.Monthly {
		report.Monthly = append(report.Monthly, models.MonthlyBucket{
			Month:   m.Label,
			Income:  c.decode(m.Income),
			Expense: c.decode(m.Expense),
			Profit:  c.decode(m.Profit),
		})
	}
	for _, y := range d.Yearly {
		report.Yearly = append(report.Yearly, models.YearlyBucket{
			Year:    y.Year,
			Income:  c.decode(y.Income),
			Expense: c.decode(y.Expense),
			Profit:  c.decode(y.Profit),
		})
	}
	report.IncomeCategories = decodeShares(&c, d.IncomeCategories)
	report.ExpenseCategories = decodeShares(&c, d.ExpenseCategories)

	return report, c.err
}

func decodeShares(c *moneyCodec, docs []categoryDocument) []models.CategoryShare {
	shares := make([]models.CategoryShare, 0, len(docs))
	for _, d := range docs {
		shares = append(shares, models.CategoryShare{
			Key:        d.Key,
			Category:   d.Category,
			Amount:     c.decode(d.Amount),
			Percentage: d.Percentage,
		})
	}
	return shares
}
