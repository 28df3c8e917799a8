package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverS3       = "s3"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server ServerConfig

	// Key-value storage configuration
	Storage StorageConfig

	// Facade behaviour
	API APIConfig

	// Logging configuration
	Log LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"8080"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"30s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// StorageConfig selects and configures the key-value backend
type StorageConfig struct {
	Driver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`

	SQLitePath string `env:"SQLITE_PATH" envDefault:"./data/controlly.db"`

	Database       DatabaseConfig
	MigrationsPath string `env:"MIGRATIONS_PATH" envDefault:"./migrations"`
	// MigrateDown rolls back one migration and exits instead of serving
	MigrateDown bool `env:"MIGRATE_DOWN"`

	Redis RedisConfig

	S3 S3Config
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string        `env:"DB_HOST" envDefault:"localhost"`
	Port         string        `env:"DB_PORT" envDefault:"5432"`
	User         string        `env:"DB_USER" envDefault:"postgres"`
	Password     string        `env:"DB_PASSWORD" envDefault:"postgres"`
	Name         string        `env:"DB_NAME" envDefault:"controlly"`
	SSLMode      string        `env:"DB_SSLMODE" envDefault:"disable"`
	MaxOpenConns int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	MaxLifetime  time.Duration `env:"DB_MAX_LIFETIME" envDefault:"5m"`
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
	Prefix   string `env:"REDIS_PREFIX"`
}

// S3Config holds object storage settings
type S3Config struct {
	Bucket    string `env:"S3_BUCKET"`
	Prefix    string `env:"S3_PREFIX" envDefault:"controlly/"`
	Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	Endpoint  string `env:"S3_ENDPOINT"` // set for MinIO and other S3-compatible servers
	AccessKey string `env:"S3_ACCESS_KEY"`
	SecretKey string `env:"S3_SECRET_KEY"`
}

// APIConfig holds facade settings
type APIConfig struct {
	Latency           time.Duration `env:"API_LATENCY" envDefault:"400ms"`
	CustomerSeedCount int           `env:"CUSTOMER_SEED_COUNT" envDefault:"200"`
	UsageDefaultDays  int           `env:"USAGE_DEFAULT_DAYS" envDefault:"30"`
	RefreshInterval   time.Duration `env:"DASHBOARD_REFRESH_INTERVAL" envDefault:"1m"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"` // "json" or "pretty"
}

// Load reads configuration from environment variables.
// A .env file in the working directory is applied first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	// Validate required configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	case DriverPostgres:
		if c.Storage.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Storage.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	case DriverRedis:
		if c.Storage.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required")
		}
	case DriverS3:
		if c.Storage.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.MigrateDown && c.Storage.Driver != DriverPostgres {
		return fmt.Errorf("MIGRATE_DOWN requires STORAGE_DRIVER=postgres")
	}
	if c.API.Latency < 0 {
		return fmt.Errorf("API_LATENCY must not be negative")
	}
	if c.API.CustomerSeedCount < 0 {
		return fmt.Errorf("CUSTOMER_SEED_COUNT must not be negative")
	}
	return nil
}

// GetDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}
