// Package storage selects the ledger persister named by configuration.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"warehouse-ledger/internal/config"
	"warehouse-ledger/internal/core"
	"warehouse-ledger/internal/db"
	"warehouse-ledger/internal/storage/filestore"
	"warehouse-ledger/internal/storage/pgstore"
)

// Open returns the persister for cfg and a function releasing its resources.
func Open(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (core.Persister, func(), error) {
	switch cfg.Backend {
	case config.BackendFile:
		logger.Info("using file storage", zap.String("path", cfg.DataFile))
		return filestore.New(cfg.DataFile), func() {}, nil
	case config.BackendPostgres:
		pool, err := db.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using postgres storage", zap.String("ledger", cfg.LedgerName))
		return pgstore.New(pool, cfg.LedgerName), pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
