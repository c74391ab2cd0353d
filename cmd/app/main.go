package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"warehouse-ledger/internal/adapters/cli"
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

	ctx := context.Background()
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

	if err := cli.Run(ctx, svc, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if errors.Is(err, cli.ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
