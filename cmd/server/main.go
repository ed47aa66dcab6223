package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/nkoivu/bossfarm/internal/config"
	"github.com/nkoivu/bossfarm/internal/repository/mongodb"
	"github.com/nkoivu/bossfarm/internal/repository/sheets"
	"github.com/nkoivu/bossfarm/internal/scheduler"
	"github.com/nkoivu/bossfarm/internal/server/handlers"
	"github.com/nkoivu/bossfarm/internal/server/router"
	expirysvc "github.com/nkoivu/bossfarm/internal/service/expiry"
	exportsvc "github.com/nkoivu/bossfarm/internal/service/export"
	statssvc "github.com/nkoivu/bossfarm/internal/service/stats"
	trackersvc "github.com/nkoivu/bossfarm/internal/service/tracker"
	"github.com/nkoivu/bossfarm/pkg/clients/notify"
	"github.com/nkoivu/bossfarm/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	notifyClient := notify.NewClient(cfg.Notify)

	trackerSvc := trackersvc.NewService(repo, repo, repo, baseLogger.Named("svc.tracker"))
	statsSvc := statssvc.NewService(repo, baseLogger.Named("svc.stats"))
	expirySvc := expirysvc.NewService(repo, notifyClient, baseLogger.Named("svc.expiry"))

	// The spreadsheet export is optional; it runs only when credentials and
	// a target sheet are configured.
	var exportSvc *exportsvc.Service
	if cfg.Sheets.CredentialsPath != "" && cfg.Sheets.SpreadsheetID != "" {
		sink, err := sheets.NewGoogleSheetSink(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets export sink", zap.Error(err))
		}
		exportSvc = exportsvc.NewService(repo, sink, baseLogger.Named("svc.export"))
		baseLogger.Info("weekly sheet export enabled")
	} else {
		baseLogger.Warn("sheet export credentials missing, weekly export disabled")
	}

	trackerHandler := handlers.NewTrackerHandler(trackerSvc, baseLogger.Named("handlers.tracker"))
	statsHandler := handlers.NewStatsHandler(statsSvc, baseLogger.Named("handlers.stats"))
	equipmentHandler := handlers.NewEquipmentHandler(expirySvc, baseLogger.Named("handlers.equipment"))
	engine := router.New(trackerHandler, statsHandler, equipmentHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Jobs, expirySvc, exportSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
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
