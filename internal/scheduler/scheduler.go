package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/config"
	"github.com/mamadbah2/farmledger/internal/domain/models"
	"github.com/mamadbah2/farmledger/internal/service/ledger"
)

const jobTimeout = 2 * time.Minute

// ReportBuilder produces the periodic finance report.
type ReportBuilder interface {
	Report(ctx context.Context, year *int) (models.FinanceReport, error)
	ArchiveReport(ctx context.Context) (models.FinanceReport, error)
}

// Notifier pushes a text message to a recipient.
type Notifier interface {
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// LedgerSyncer imports new ledger rows.
type LedgerSyncer interface {
	Sync(ctx context.Context) (ledger.SyncResult, error)
}

// Jobs are the collaborators of the scheduled tasks. Notifier and Ledger may
// be nil when their integration is disabled.
type Jobs struct {
	Reports  ReportBuilder
	Archive  bool
	Notifier Notifier
	Digest   func(models.FinanceReport) string
	Ledger   LedgerSyncer
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron   *cron.Cron
	jobs   Jobs
	cfg    config.Config
	logger *zap.Logger
}

// NewScheduler creates a scheduler running in the configured timezone.
func NewScheduler(cfg config.Config, jobs Jobs, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := cfg.Reporting.Location()
	if err != nil {
		return nil, fmt.Errorf("load scheduler timezone: %w", err)
	}

	return &Scheduler{
		cron:   cron.New(cron.WithLocation(loc)),
		jobs:   jobs,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("timezone", s.cfg.Reporting.Timezone))

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.runReport); err != nil {
		return fmt.Errorf("schedule finance report %q: %w", s.cfg.Reporting.CronSchedule, err)
	}

	if s.jobs.Ledger != nil {
		if _, err := s.cron.AddFunc(s.cfg.Sheets.SyncSchedule, s.runLedgerSync); err != nil {
			return fmt.Errorf("schedule ledger sync %q: %w", s.cfg.Sheets.SyncSchedule, err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runReport() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()
	if err := s.sendReport(ctx); err != nil {
		s.logger.Error("finance report job failed", zap.Error(err))
	}
}

func (s *Scheduler) sendReport(ctx context.Context) error {
	s.logger.Info("generating finance report")

	var (
		report models.FinanceReport
		err    error
	)
	if s.jobs.Archive {
		report, err = s.jobs.Reports.ArchiveReport(ctx)
	} else {
		report, err = s.jobs.Reports.Report(ctx, nil)
	}
	if err != nil {
		return fmt.Errorf("build finance report: %w", err)
	}

	if report.Skipped > 0 {
		s.logger.Warn("finance report skipped malformed transactions", zap.Int("skipped", report.Skipped))
	}

	if s.jobs.Notifier == nil || s.cfg.WhatsApp.ManagerID == "" {
		s.logger.Debug("finance report not sent, no recipient configured")
		return nil
	}

	req := models.OutboundMessageRequest{
		To:      s.cfg.WhatsApp.ManagerID,
		Message: s.jobs.Digest(report),
	}
	if err := s.jobs.Notifier.SendOutbound(ctx, req); err != nil {
		return fmt.Errorf("send finance report: %w", err)
	}

	s.logger.Info("finance report sent successfully", zap.Int("year", report.Year))
	return nil
}

func (s *Scheduler) runLedgerSync() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if _, err := s.jobs.Ledger.Sync(ctx); err != nil {
		s.logger.Error("ledger sync job failed", zap.Error(err))
	}
}
