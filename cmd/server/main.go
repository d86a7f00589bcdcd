package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/farmledger/internal/config"
	"github.com/mamadbah2/farmledger/internal/repository/memory"
	"github.com/mamadbah2/farmledger/internal/repository/mongodb"
	"github.com/mamadbah2/farmledger/internal/repository/sheets"
	"github.com/mamadbah2/farmledger/internal/scheduler"
	"github.com/mamadbah2/farmledger/internal/server/handlers"
	"github.com/mamadbah2/farmledger/internal/server/router"
	commandsvc "github.com/mamadbah2/farmledger/internal/service/commands"
	ledgersvc "github.com/mamadbah2/farmledger/internal/service/ledger"
	recordssvc "github.com/mamadbah2/farmledger/internal/service/records"
	reportingsvc "github.com/mamadbah2/farmledger/internal/service/reporting"
	weathersvc "github.com/mamadbah2/farmledger/internal/service/weather"
	whatsappsvc "github.com/mamadbah2/farmledger/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/farmledger/pkg/clients/whatsapp"
	"github.com/mamadbah2/farmledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	store := memory.NewStore()
	if cfg.Store.SeedPath != "" {
		if err := store.LoadSeed(cfg.Store.SeedPath); err != nil {
			baseLogger.Fatal("failed to load seed data", zap.String("path", cfg.Store.SeedPath), zap.Error(err))
		}
		baseLogger.Info("seed data loaded", zap.String("path", cfg.Store.SeedPath))
	}

	var archive reportingsvc.Archive
	if cfg.MongoDB.Enabled() {
		connectCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		mongoRepo, err := mongodb.NewMongoDBRepository(connectCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName)
		cancel()
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		archive = mongoRepo
		baseLogger.Info("mongodb report archive enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("mongodb uri missing, report archive disabled")
	}

	clock, err := cfg.Reporting.Clock()
	if err != nil {
		baseLogger.Fatal("failed to resolve reporting timezone", zap.Error(err))
	}
	recordsSvc := recordssvc.NewService(store, baseLogger.Named("svc.records")).WithClock(clock)
	reportingSvc := reportingsvc.NewService(store, archive, baseLogger.Named("svc.reporting")).WithClock(clock)

	var importer *ledgersvc.Importer
	var exporter commandsvc.LedgerExporter
	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		importer = ledgersvc.NewImporter(sheetsRepo, recordsSvc, cfg.Sheets.LedgerRange, baseLogger.Named("svc.ledger"))
		exporter = importer

		syncCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		if _, err := importer.Sync(syncCtx); err != nil {
			baseLogger.Warn("initial ledger sync failed", zap.Error(err))
		}
		cancel()
	} else {
		baseLogger.Warn("ledger spreadsheet not configured, sheet sync disabled")
	}

	h := router.Handlers{
		Records: handlers.NewRecordsHandler(recordsSvc, baseLogger.Named("handlers.records")),
		Finance: handlers.NewFinanceHandler(reportingSvc, baseLogger.Named("handlers.finance")),
		Weather: handlers.NewWeatherHandler(weathersvc.NewStaticProvider(), baseLogger.Named("handlers.weather")),
	}

	jobs := scheduler.Jobs{
		Reports: reportingSvc,
		Archive: archive != nil,
		Digest:  reportingsvc.FormatDigest,
	}
	if importer != nil {
		jobs.Ledger = importer
	}

	if cfg.WhatsApp.Enabled() {
		commandDispatcher := commandsvc.NewService(recordsSvc, reportingSvc, reportingsvc.FormatDigest, exporter, baseLogger.Named("svc.commands"))
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		messagingSvc := whatsappsvc.NewMetaWhatsAppService(cfg.WhatsApp, whatsClient, commandDispatcher, baseLogger.Named("svc.whatsapp"))
		h.Webhook = handlers.NewWebhookHandler(messagingSvc, baseLogger.Named("handlers.whatsapp"))
		jobs.Notifier = messagingSvc
		baseLogger.Info("whatsapp channel enabled")
	} else {
		baseLogger.Warn("whatsapp token missing, messaging channel disabled")
	}

	engine := router.New(h, baseLogger.Named("router"))

	sched, err := scheduler.NewScheduler(*cfg, jobs, baseLogger.Named("scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
