package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/finance"
)

// ErrArchiveDisabled is returned by ArchiveReport when no archive is configured.
var ErrArchiveDisabled = errors.New("report archive is not configured")

// SnapshotSource yields the current transaction snapshot.
type SnapshotSource interface {
	ListTransactions(ctx context.Context) ([]models.Transaction, error)
}

// FarmSource yields the operational records summarised on the dashboard.
type FarmSource interface {
	ListFarms(ctx context.Context) ([]models.Farm, error)
	ListCrops(ctx context.Context) ([]models.Crop, error)
	ListTasks(ctx context.Context) ([]models.Task, error)
}

// Source combines both record sources; the memory store satisfies it.
type Source interface {
	SnapshotSource
	FarmSource
}

// Archive persists report snapshots.
type Archive interface {
	SaveFinanceReport(ctx context.Context, report models.FinanceReport) error
	LatestFinanceReport(ctx context.Context) (models.FinanceReport, error)
}

// Service exposes finance analytics for the HTTP API and WhatsApp digests.
type Service struct {
	source  Source
	archive Archive
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a new reporting service instance. archive may be nil.
func NewService(source Source, archive Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, archive: archive, logger: logger, now: time.Now}
}

// WithClock replaces the service clock.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// MonthlySeries returns the twelve monthly buckets of year, or of the current year when nil.
func (s *Service) MonthlySeries(ctx context.Context, year *int) ([]models.MonthlyBucket, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return finance.BuildMonthlySeries(txs, resolveYear(year, s.now())), nil
}

// YearlySeries returns one bucket per year with activity.
func (s *Service) YearlySeries(ctx context.Context) ([]models.YearlyBucket, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return finance.BuildYearlySeries(txs), nil
}

// CategoryBreakdown returns category shares for typ inside scope.
func (s *Service) CategoryBreakdown(ctx context.Context, typ models.TransactionType, scope finance.Scope) ([]models.CategoryShare, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return finance.BuildCategoryBreakdown(txs, typ, scope, s.now()), nil
}

// SummaryRatios returns all-time totals and ratios.
func (s *Service) SummaryRatios(ctx context.Context) (models.SummaryRatios, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return models.SummaryRatios{}, err
	}
	return finance.ComputeSummaryRatios(txs), nil
}

// CurrentMonth returns totals for the calendar month containing now.
func (s *Service) CurrentMonth(ctx context.Context) (models.PeriodTotals, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return models.PeriodTotals{}, err
	}
	return finance.ComputePeriodTotals(txs, finance.ScopeCurrentMonth, s.now()), nil
}

// Report bundles every summary from a single snapshot and clock reading.
func (s *Service) Report(ctx context.Context, year *int) (models.FinanceReport, error) {
	txs, err := s.snapshot(ctx)
	if err != nil {
		return models.FinanceReport{}, err
	}
	now := s.now()
	return finance.BuildReport(txs, now, resolveYear(year, now)), nil
}

// Dashboard counts farms, growing crops and open tasks next to this month's totals.
func (s *Service) Dashboard(ctx context.Context) (models.Dashboard, error) {
	farms, err := s.source.ListFarms(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load farms: %w", err)
	}
	crops, err := s.source.ListCrops(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load crops: %w", err)
	}
	tasks, err := s.source.ListTasks(ctx)
	if err != nil {
		return models.Dashboard{}, fmt.Errorf("load tasks: %w", err)
	}
	txs, err := s.snapshot(ctx)
	if err != nil {
		return models.Dashboard{}, err
	}

	now := s.now()
	dash := models.Dashboard{
		Farms:        len(farms),
		CurrentMonth: finance.ComputePeriodTotals(txs, finance.ScopeCurrentMonth, now),
	}
	for _, c := range crops {
		if c.Status == models.CropGrowing {
			dash.ActiveCrops++
		}
	}
	for _, t := range tasks {
		switch t.Status(now) {
		case models.TaskPending:
			dash.PendingTasks++
		case models.TaskOverdue:
			dash.OverdueTasks++
		}
	}
	return dash, nil
}

// ArchiveReport builds the current-year report and stores it in the archive.
func (s *Service) ArchiveReport(ctx context.Context) (models.FinanceReport, error) {
	if s.archive == nil {
		return models.FinanceReport{}, ErrArchiveDisabled
	}
	report, err := s.Report(ctx, nil)
	if err != nil {
		return models.FinanceReport{}, err
	}
	if err := s.archive.SaveFinanceReport(ctx, report); err != nil {
		return models.FinanceReport{}, fmt.Errorf("archive finance report: %w", err)
	}
	s.logger.Info("finance report archived", zap.Int("year", report.Year), zap.Time("generated_at", report.GeneratedAt))
	return report, nil
}

// LatestArchived returns the newest snapshot held by the archive.
func (s *Service) LatestArchived(ctx context.Context) (models.FinanceReport, error) {
	if s.archive == nil {
		return models.FinanceReport{}, ErrArchiveDisabled
	}
	report, err := s.archive.LatestFinanceReport(ctx)
	if err != nil {
		return models.FinanceReport{}, fmt.Errorf("load archived report: %w", err)
	}
	return report, nil
}

// FormatDigest renders report as a short plain-text message.
func FormatDigest(report models.FinanceReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Farm finance report %d (as of %s)\n", report.Year, report.GeneratedAt.Format("2006-01-02"))

	cm := report.CurrentMonth
	fmt.Fprintf(&b, "This month: income %s, expenses %s, profit %s across %d entries.\n",
		money(cm.Income), money(cm.Expense), money(cm.Profit), cm.Count)

	sum := report.Summary
	fmt.Fprintf(&b, "All time: income %s, expenses %s, net %s (income ratio %.1f%%).\n",
		money(sum.TotalIncome), money(sum.TotalExpense), money(sum.NetProfit), sum.IncomeRatioPercent)

	var active []string
	for _, m := range report.Monthly {
		if m.Income.IsZero() && m.Expense.IsZero() {
			continue
		}
		active = append(active, fmt.Sprintf("%s %s", m.Month, money(m.Profit)))
	}
	if len(active) == 0 {
		fmt.Fprintf(&b, "No activity recorded in %d.", report.Year)
	} else {
		fmt.Fprintf(&b, "Monthly profit: %s.", strings.Join(active, ", "))
	}

	if len(report.ExpenseCategories) > 0 {
		top := report.ExpenseCategories[0]
		fmt.Fprintf(&b, "\nTop expense: %s %s (%.1f%%).", top.Category, money(top.Amount), top.Percentage)
	}
	return b.String()
}

func money(v decimal.Decimal) string {
	return "$" + v.StringFixed(2)
}

func (s *Service) snapshot(ctx context.Context) ([]models.Transaction, error) {
	txs, err := s.source.ListTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	if _, skipped := finance.Partition(txs); skipped > 0 {
		s.logger.Warn("skipping malformed transactions", zap.Int("skipped", skipped), zap.Int("total", len(txs)))
	}
	return txs, nil
}

func resolveYear(year *int, now time.Time) int {
	if year != nil {
		return *year
	}
	return now.Year()
}
