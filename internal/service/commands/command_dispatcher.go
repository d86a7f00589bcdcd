package commands

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/domain/models"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

const dateFormat = "2006-01-02"

// HelpMessage lists the commands understood over WhatsApp.
const HelpMessage = "Farm ledger commands:\n" +
	"/income <amount> <category> [description]\n" +
	"/expense <amount> <category> [description]\n" +
	"/summary for all-time totals\n" +
	"/month for this month's totals\n" +
	"/report [year] for the monthly digest"

// Usage returns the argument hint for a command type.
func Usage(t models.CommandType) string {
	switch t {
	case models.CommandIncome:
		return "Usage: /income <amount> <category> [description], e.g. /income 250 crop-sales corn to co-op"
	case models.CommandExpense:
		return "Usage: /expense <amount> <category> [description], e.g. /expense 80 fuel tractor diesel"
	case models.CommandReport:
		return "Usage: /report [year], e.g. /report 2024"
	default:
		return HelpMessage
	}
}

// TransactionRecorder stores transactions captured from messages.
type TransactionRecorder interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)
}

// ReportingAdapter defines the reporting functions required by the dispatcher.
type ReportingAdapter interface {
	SummaryRatios(ctx context.Context) (models.SummaryRatios, error)
	CurrentMonth(ctx context.Context) (models.PeriodTotals, error)
	Report(ctx context.Context, year *int) (models.FinanceReport, error)
}

// LedgerExporter mirrors recorded transactions to the ledger sheet.
type LedgerExporter interface {
	Export(ctx context.Context, tx models.Transaction) error
}

// Digester renders a finance report as message text.
type Digester func(models.FinanceReport) string

// Dispatcher executes parsed commands and returns the reply text.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	recorder  TransactionRecorder
	reporting ReportingAdapter
	digest    Digester
	ledger    LedgerExporter
	logger    *zap.Logger
	now       func() time.Time
}

// NewService constructs a command dispatcher. ledger may be nil.
func NewService(recorder TransactionRecorder, reporting ReportingAdapter, digest Digester, ledger LedgerExporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		recorder:  recorder,
		reporting: reporting,
		digest:    digest,
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
	}
}

// HandleCommand runs cmd on behalf of sender.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Any("args", cmd.Args))

	switch cmd.Type {
	case models.CommandIncome:
		return s.record(ctx, models.TransactionIncome, cmd)
	case models.CommandExpense:
		return s.record(ctx, models.TransactionExpense, cmd)
	case models.CommandSummary:
		ratios, err := s.reporting.SummaryRatios(ctx)
		if err != nil {
			return "", fmt.Errorf("summary ratios: %w", err)
		}
		return fmt.Sprintf("All time: income $%s, expenses $%s, net $%s.\nIncome ratio %.1f%%. Average income $%s, average expense $%s.",
			ratios.TotalIncome.StringFixed(2), ratios.TotalExpense.StringFixed(2), ratios.NetProfit.StringFixed(2),
			ratios.IncomeRatioPercent, ratios.AvgIncome.StringFixed(2), ratios.AvgExpense.StringFixed(2)), nil
	case models.CommandMonth:
		totals, err := s.reporting.CurrentMonth(ctx)
		if err != nil {
			return "", fmt.Errorf("current month totals: %w", err)
		}
		return fmt.Sprintf("%s: income $%s, expenses $%s, profit $%s across %d entries.",
			s.now().Format("January 2006"), totals.Income.StringFixed(2), totals.Expense.StringFixed(2),
			totals.Profit.StringFixed(2), totals.Count), nil
	case models.CommandReport:
		year, err := parseYear(cmd.Args)
		if err != nil {
			return "", err
		}
		report, err := s.reporting.Report(ctx, year)
		if err != nil {
			return "", fmt.Errorf("build report: %w", err)
		}
		return s.digest(report), nil
	case models.CommandUnknown:
		return HelpMessage, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

func (s *Service) record(ctx context.Context, typ models.TransactionType, cmd models.Command) (string, error) {
	tx, err := s.buildTransaction(typ, cmd, s.now())
	if err != nil {
		return "", err
	}

	saved, err := s.recorder.CreateTransaction(ctx, tx)
	if err != nil {
		return "", fmt.Errorf("record %s: %w", typ, err)
	}

	if s.ledger != nil {
		if err := s.ledger.Export(ctx, saved); err != nil {
			s.logger.Warn("ledger export failed", zap.Int64("transaction_id", saved.ID), zap.Error(err))
		}
	}

	message := fmt.Sprintf("%s recorded: $%s for %s on %s.", titleCase(string(typ)), saved.Amount.StringFixed(2), saved.Category, saved.Date.Format(dateFormat))
	summary := s.safeSummary(ctx, func(ctx context.Context) (string, error) {
		totals, err := s.reporting.CurrentMonth(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("This month: profit $%s across %d entries.", totals.Profit.StringFixed(2), totals.Count), nil
	})
	if summary != "" {
		message += "\n" + summary
	}
	return message, nil
}

func (s *Service) buildTransaction(typ models.TransactionType, cmd models.Command, now time.Time) (models.Transaction, error) {
	if len(cmd.Args) < 2 {
		return models.Transaction{}, ErrInvalidArguments
	}

	cleaned := strings.NewReplacer("$", "", ",", "").Replace(cmd.Args[0])
	amount, err := decimal.NewFromString(cleaned)
	if err != nil || amount.IsNegative() {
		return models.Transaction{}, ErrInvalidArguments
	}

	description := ""
	if len(cmd.Args) > 2 {
		description = strings.Join(cmd.Args[2:], " ")
	}

	day := now.UTC()
	return models.Transaction{
		Type:        typ,
		Category:    cmd.Args[1],
		Amount:      amount,
		Date:        time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC),
		Description: description,
	}, nil
}

func parseYear(args []string) (*int, error) {
	if len(args) == 0 {
		return nil, nil
	}
	year, err := strconv.Atoi(args[0])
	if err != nil || year < 1 {
		return nil, ErrInvalidArguments
	}
	return &year, nil
}

func (s *Service) safeSummary(ctx context.Context, fn func(context.Context) (string, error)) string {
	if fn == nil {
		return ""
	}

	summary, err := fn(ctx)
	if err != nil {
		s.logger.Debug("analytics summary failed", zap.Error(err))
		return ""
	}

	return summary
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
