package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/controlly-api/internal/api"
	"github.com/controlly-api/internal/config"
	"github.com/controlly-api/internal/metrics"
	"github.com/controlly-api/internal/repository"
	"github.com/controlly-api/internal/seed"
	"github.com/controlly-api/internal/service"
	"github.com/controlly-api/internal/storage"
	"github.com/controlly-api/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New(config.LogConfig{Level: "info"})
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info().Msg("Starting Controlly API server...")

	m := metrics.New()

	// Roll back the kv schema and exit when asked to
	if cfg.Storage.MigrateDown {
		if err := storage.RollbackPostgres(&cfg.Storage, log); err != nil {
			log.Fatal().Err(err).Msg("Failed to roll back migration")
		}
		log.Info().Msg("Migration rolled back, exiting")
		return
	}

	// Open the key-value store
	ctx := context.Background()
	store, err := storage.Open(ctx, &cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("Failed to open storage")
	}
	defer closeStore(store, log)

	// Initialize repositories and seed empty collections up front
	gen := seed.NewGenerator(nil, nil)
	repos := repository.New(store, repository.Options{
		Generator:     gen,
		CustomerCount: cfg.API.CustomerSeedCount,
		Metrics:       m,
	}, log)
	if err := repos.EnsureSeeded(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed collections")
	}

	// Initialize services
	services := service.NewServices(repos, gen, cfg, m, log)

	// Start background dashboard refresher
	services.Dashboard.StartRefresher(ctx)

	// Initialize router
	router := api.NewRouter(services, store, m, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop dashboard refresher
	services.Dashboard.StopRefresher()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		return
	}

	log.Info().Msg("Server exited gracefully")
}

func closeStore(store storage.Store, log zerolog.Logger) {
	if err := store.Close(); err != nil {
		log.Error().Err(err).Msg("Failed to close storage")
	}
}
