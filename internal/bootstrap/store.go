package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/overtime-backend-go/internal/config"
	"github.com/cmlabs-hris/overtime-backend-go/internal/domain/overtime"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/redis"
	"github.com/cmlabs-hris/overtime-backend-go/internal/pkg/storage"
	"github.com/cmlabs-hris/overtime-backend-go/internal/repository/blob"
	"github.com/cmlabs-hris/overtime-backend-go/internal/repository/postgresql"
	redisRepo "github.com/cmlabs-hris/overtime-backend-go/internal/repository/redis"
)

// Store bundles the record repository selected by STORE_TYPE with the local
// file storage used for archives.
type Store struct {
	Records overtime.RecordRepository
	Files   *storage.LocalStorage
	closers []func()
}

func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	files, err := storage.NewLocalStorage(cfg.Storage.BasePath)
	if err != nil {
		return nil, err
	}
	store := &Store{Files: files}

	switch cfg.Store.Type {
	case config.StoreLocal:
		store.Records = blob.NewRecordRepository(files)

	case config.StoreRedis:
		client, err := redis.NewClient(ctx, redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
		})
		if err != nil {
			return nil, err
		}
		store.closers = append(store.closers, func() { client.Close() })
		store.Records = redisRepo.NewRecordRepository(client, cfg.Redis.Prefix)

	case config.StorePostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: cfg.Database.MaxConns,
			MinConns: cfg.Database.MinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		store.closers = append(store.closers, db.Close)
		if err := postgresql.EnsureSchema(ctx, db); err != nil {
			store.Close()
			return nil, err
		}
		store.Records = postgresql.NewRecordRepository(db)

	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}

	slog.Info("Record store ready", "type", cfg.Store.Type)
	return store, nil
}

func (s *Store) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}
