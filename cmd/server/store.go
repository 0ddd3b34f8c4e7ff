package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/taskbox/internal/config"
	mongoInfra "github.com/fastygo/taskbox/internal/infrastructure/mongo"
	pgInfra "github.com/fastygo/taskbox/internal/infrastructure/postgres"
	"github.com/fastygo/taskbox/repository"
	"github.com/fastygo/taskbox/repository/boltdb"
	"github.com/fastygo/taskbox/repository/mongodb"
	"github.com/fastygo/taskbox/repository/postgres"
)

// openStore connects the driver selected by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverPostgres:
		if err := pgInfra.Migrate(cfg.Database, cfg.Migrations, logger); err != nil {
			return repository.Store{}, fmt.Errorf("migrations: %w", err)
		}
		pool, err := pgInfra.Connect(ctx, cfg.Database, logger)
		if err != nil {
			return repository.Store{}, err
		}
		return postgres.NewStore(pool), nil

	case config.StoreDriverMongo:
		client, err := mongoInfra.NewClient(ctx, cfg.Mongo, logger)
		if err != nil {
			return repository.Store{}, err
		}
		if err := mongodb.EnsureIndexes(ctx, client.Database(cfg.Mongo.Database)); err != nil {
			_ = client.Disconnect(ctx)
			return repository.Store{}, fmt.Errorf("mongo indexes: %w", err)
		}
		return mongodb.NewStore(client, cfg.Mongo.Database), nil

	case config.StoreDriverBolt:
		db, err := boltdb.Open(cfg.Bolt.Path)
		if err != nil {
			return repository.Store{}, err
		}
		logger.Info("opened embedded store", zap.String("path", cfg.Bolt.Path))
		return boltdb.NewStore(db), nil
	}
	return repository.Store{}, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
