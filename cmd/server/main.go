package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	webAdapter "warehouse-ledger/internal/adapters/web"
	"warehouse-ledger/internal/app"
	"warehouse-ledger/internal/config"
	"warehouse-ledger/internal/core"
	"warehouse-ledger/internal/storage"
	"warehouse-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persister, closeStorage, err := storage.Open(ctx, cfg.Storage, logger.Named(log, "storage"))
	if err != nil {
		log.Fatal("storage", zap.Error(err))
	}
	defer closeStorage()

	store := core.NewStore(persister, core.WithLogger(logger.Named(log, "store")))
	if err := store.Open(ctx); err != nil {
		log.Fatal("open ledger", zap.Error(err))
	}
	svc := app.NewAppService(store, cfg.Stock, logger.Named(log, "app"))

	if cfg.Storage.FlushSchedule != "" {
		scheduler := cron.New()
		flushLog := logger.Named(log, "flush")
		if _, err := scheduler.AddFunc(cfg.Storage.FlushSchedule, func() {
			if err := svc.Flush(context.Background()); err != nil {
				flushLog.Error("periodic flush failed", zap.Error(err))
			}
		}); err != nil {
			log.Fatal("schedule flush", zap.Error(err))
		}
		scheduler.Start()
		defer scheduler.Stop()
		log.Info("periodic flush scheduled", zap.String("spec", cfg.Storage.FlushSchedule))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           webAdapter.NewHandler(svc, cfg.Server.AllowedOrigins, logger.Named(log, "http")),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown", zap.Error(err))
	}
	if err := svc.Flush(shutdownCtx); err != nil {
		log.Error("final flush", zap.Error(err))
	}
}
