package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/controlly-api/internal/config"
	"github.com/controlly-api/internal/database"
	"github.com/rs/zerolog"
)

// Postgres stores keys in the kv_store table created by the migrations
type Postgres struct {
	db *database.DB
}

// NewPostgres wraps an open, migrated database
func NewPostgres(db *database.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("select %s: %w", key, err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			updated_at = EXCLUDED.updated_at
	`
	if _, err := p.db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Remove(ctx context.Context, key string) error {
	if _, err := p.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.HealthCheck(ctx)
}

func (p *Postgres) Close() error {
	return p.db.Close()
}

// RollbackPostgres connects with cfg and rolls back the newest kv migration.
// It runs instead of Open when MIGRATE_DOWN is set.
func RollbackPostgres(cfg *config.StorageConfig, log zerolog.Logger) error {
	if cfg.Driver != config.DriverPostgres {
		return fmt.Errorf("migrate down requires the %s driver, got %q", config.DriverPostgres, cfg.Driver)
	}
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return err
	}
	defer db.Close()

	return db.MigrateDown(cfg.MigrationsPath)
}
