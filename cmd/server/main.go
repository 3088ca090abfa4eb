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

	"github.com/mamadbah2/ranchprice/internal/config"
	"github.com/mamadbah2/ranchprice/internal/repository/mongodb"
	"github.com/mamadbah2/ranchprice/internal/repository/sheets"
	"github.com/mamadbah2/ranchprice/internal/scheduler"
	"github.com/mamadbah2/ranchprice/internal/server/handlers"
	"github.com/mamadbah2/ranchprice/internal/server/router"
	reportingsvc "github.com/mamadbah2/ranchprice/internal/service/reporting"
	"github.com/mamadbah2/ranchprice/internal/service/session"
	"github.com/mamadbah2/ranchprice/internal/service/suggestions"
	whatsappsvc "github.com/mamadbah2/ranchprice/internal/service/whatsapp"
	"github.com/mamadbah2/ranchprice/pkg/clients/ranchapi"
	whatsappclient "github.com/mamadbah2/ranchprice/pkg/clients/whatsapp"
	"github.com/mamadbah2/ranchprice/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Server.LogLevel))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	opts := suggestions.Options{Location: cfg.Pricing.Location()}

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
		opts.Recorder = mongoRepo
		baseLogger.Info("suggestion history enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("mongodb uri missing, suggestion history disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		opts.Exporter = reportingsvc.NewService(sheetsRepo, cfg.Sheets.SheetName, baseLogger.Named("svc.reporting"))
		baseLogger.Info("sheet export enabled", zap.String("tab", cfg.Sheets.SheetName))
	}

	if cfg.WhatsApp.Enabled() {
		whatsClient := whatsappclient.NewClient(cfg.WhatsApp)
		opts.Notifier = whatsappsvc.NewNotifier(whatsClient, cfg.WhatsApp.NotifyTo, baseLogger.Named("svc.whatsapp"))
		baseLogger.Info("whatsapp notifications enabled")
	}

	ranchClient := ranchapi.NewClient(cfg.RanchAPI)
	suggestionSvc := suggestions.NewService(ranchClient, opts, baseLogger.Named("svc.suggestions"))

	engine := router.New(
		handlers.NewSuggestionHandler(suggestionSvc, baseLogger.Named("handlers.suggestions")),
		handlers.NewSessionHandler(session.NewManager(), baseLogger.Named("handlers.session")),
		baseLogger.Named("router"),
	)

	sched := scheduler.NewScheduler(*cfg, suggestionSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 2 * time.Minute,
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
