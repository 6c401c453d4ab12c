/*
main.go - Booking engine server entry point

STARTUP SEQUENCE:
  1. Load configuration (environment, optional .env file)
  2. Configure zerolog
  3. Initialize SQLite store
  4. Wire API handler and router
  5. Start server with graceful shutdown

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (configurable grace period)
  3. Close database connection
  4. Exit

CONFIGURATION:
  All via environment variables (see config/config.go):
    SERVER_PORT, SERVER_LOG_LEVEL, DB_PATH, APP_CORS_*, ...
  DB_PATH=":memory:" runs with an ephemeral database.
*/
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/maineblanc/booking-engine/api"
	"github.com/maineblanc/booking-engine/config"
	"github.com/maineblanc/booking-engine/store/sqlite"
)

func main() {
	if err := config.Init(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	cfg := config.Get()

	level, err := zerolog.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Server.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DB.Path).Msg("Failed to initialize database")
	}
	defer store.Close()

	// The shared supplement schedule must exist before the first quote.
	if _, err := store.EnsureSchedule(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure supplement schedule")
	}

	handler := api.NewHandler(store)
	router := api.NewRouter(handler, cfg)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr()).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server")

	grace := time.Duration(cfg.Server.Shutdown.GracePeriodSeconds) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
