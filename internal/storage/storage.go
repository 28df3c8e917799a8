package storage

import (
	"context"
	"fmt"

	"github.com/controlly-api/internal/config"
	"github.com/controlly-api/internal/database"
	"github.com/rs/zerolog"
)

// Store is a durable string key-value store.
// Get reports ok=false for an absent key; Remove of an absent key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Pinger is implemented by stores backed by a remote server
type Pinger interface {
	Ping(ctx context.Context) error
}

// Open creates the store selected by cfg.Driver
func Open(ctx context.Context, cfg *config.StorageConfig, log zerolog.Logger) (Store, error) {
	log = log.With().Str("component", "storage").Str("driver", cfg.Driver).Logger()

	var (
		store Store
		err   error
	)
	switch cfg.Driver {
	case config.DriverMemory:
		store = NewMemory()
	case config.DriverSQLite:
		store, err = NewSQLite(ctx, cfg.SQLitePath)
	case config.DriverPostgres:
		var db *database.DB
		db, err = database.New(&cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err = db.RunMigrations(cfg.MigrationsPath); err != nil {
			db.Close()
			return nil, err
		}
		store = NewPostgres(db)
	case config.DriverRedis:
		store, err = NewRedis(ctx, &cfg.Redis)
	case config.DriverS3:
		store, err = NewS3(ctx, &cfg.S3)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Msg("Key-value store ready")
	return store, nil
}
