// Package main is the entry point for the Duty Logbook API server.
// Its sole responsibility is wiring dependencies together and starting the server.
// No business logic belongs here.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/pkordes/duty-logbook/backend/internal/config"
	"github.com/pkordes/duty-logbook/backend/internal/handler"
	"github.com/pkordes/duty-logbook/backend/internal/logging"
	"github.com/pkordes/duty-logbook/backend/internal/middleware"
	"github.com/pkordes/duty-logbook/backend/internal/publish"
	"github.com/pkordes/duty-logbook/backend/internal/repo"
	"github.com/pkordes/duty-logbook/backend/internal/service"
	"github.com/pkordes/duty-logbook/backend/migrations"
)

func main() {
	// --- Config -----------------------------------------------------------
	// A missing .env is normal outside local development.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("could not read .env", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		// The default logger writes to stderr until ours is configured.
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	// --- Logger -----------------------------------------------------------
	logger := logging.New(cfg.LogLevel, cfg.LogFile)
	slog.SetDefault(logger)

	// --- Database ---------------------------------------------------------
	// New() does not open connections immediately; the first query does.
	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Verify the DB is reachable before accepting traffic.
	if err := pool.Ping(context.Background()); err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	slog.Info("database connection established")

	if cfg.MigrateOnStart {
		// goose drives database/sql; borrow a *sql.DB view of the pool.
		sqlDB := stdlib.OpenDBFromPool(pool)
		applied, err := migrations.Up(context.Background(), sqlDB)
		sqlDB.Close()
		if err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations applied", "count", applied)
	}

	// --- Event feed -------------------------------------------------------
	var publisher interface {
		service.EventPublisher
		Close() error
	} = publish.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = publish.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		slog.Info("publishing events", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}
	defer publisher.Close()

	// --- Services ---------------------------------------------------------
	eventRepo := repo.NewEventRepo(pool)
	tripRepo := repo.NewTripRepo(pool)

	server := handler.NewServer(
		service.NewTripService(tripRepo, eventRepo),
		service.NewEventService(eventRepo, publisher, logger),
		service.NewExportService(eventRepo),
		logger,
	)

	// --- Router -----------------------------------------------------------
	// Middleware is applied in order: RequestID → RealIP → Logger → Recoverer
	// → CORS → body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))
	r.Mount("/", handler.Handler(server))

	// --- HTTP Server ------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown: wait for OS signal, then give in-flight requests
	// up to 15 seconds to complete before forcefully closing.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-stop
	slog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}
