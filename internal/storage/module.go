package storage

import (
	"context"

	"pos_core/internal/config"
	"pos_core/internal/metrics"
	"pos_core/internal/pos"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func Module() fx.Option {
	return fx.Module(
		"storage",
		fx.Provide(func(cfg config.Config) (KeyValueStore, error) {
			return NewFileKV(cfg.DataDir)
		}),
		fx.Provide(func(store KeyValueStore, cfg config.Config, m *metrics.Metrics, logger *zap.Logger) *KeyValueBackend {
			return NewKeyValueBackend(store, KeyValueOptions{
				Prefix:             cfg.KeyPrefix,
				DefaultStorageType: pos.StorageType(cfg.StorageType),
			}, m, logger)
		}),
		fx.Provide(newDocumentBackend),
		fx.Provide(NewAdapter),
		fx.Provide(newStore),
	)
}

// newDocumentBackend returns nil when mongo_uri is empty or the database
// cannot be reached; the adapter then falls back to key-value storage.
func newDocumentBackend(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) *DocumentBackend {
	if cfg.MongoURI == "" {
		return nil
	}

	store, err := NewMongoStore(context.Background(), MongoConfig{
		URI:      cfg.MongoURI,
		Database: cfg.MongoDatabase,
		Timeout:  cfg.MongoTimeout,
	})
	if err != nil {
		logger.Warn("document storage unavailable", zap.Error(err))
		return nil
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return store.Close(ctx)
		},
	})

	return NewDocumentBackend(store, logger)
}

func newStore(adapter *Adapter, logger *zap.Logger) (*pos.Store, error) {
	state, err := adapter.Load(context.Background())
	if err != nil {
		return nil, err
	}
	return pos.NewStore(state, adapter, logger), nil
}
