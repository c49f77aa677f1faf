package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/Aladin-0/RM-Backend/internal/app"
	"github.com/Aladin-0/RM-Backend/internal/auth"
	"github.com/Aladin-0/RM-Backend/internal/broadcast"
	"github.com/Aladin-0/RM-Backend/internal/config"
	"github.com/Aladin-0/RM-Backend/internal/domain"
	"github.com/Aladin-0/RM-Backend/internal/logging"
	"github.com/Aladin-0/RM-Backend/internal/postgres"
	"github.com/Aladin-0/RM-Backend/internal/redis"
	"github.com/Aladin-0/RM-Backend/internal/registry"
	"github.com/Aladin-0/RM-Backend/internal/server"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := postgres.RunMigrationsWithLock(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupRedis(ctx context.Context, cfg *config.Config) *redis.Client {
	client, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		slog.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	return client
}

func runGracefulShutdown(cfg *config.Config, srv *server.Server, reg *registry.Registry, bus *redis.Bus) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		if bus != nil {
			if err := bus.Close(); err != nil {
				slog.Error("Relay shutdown error", "error", err)
			}
		}
		reg.Close()

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	store := postgres.NewStore(pool)
	reg := registry.New(clock, cfg.MaxClientsPerTopic, cfg.WriteTimeout)
	dispatcher := broadcast.NewDispatcher(reg)

	healthChecks := []server.HealthCheck{
		{Name: "database", Check: pool.Ping},
	}

	// Without Redis every event stays on this instance; with it, events
	// are relayed so any instance can serve any subscriber.
	var publisher domain.EventPublisher = dispatcher
	var bus *redis.Bus
	if cfg.RedisURL != "" {
		redisClient := setupRedis(context.Background(), cfg)
		defer func() { _ = redisClient.Close() }()

		bus = redis.NewBus(context.Background(), redisClient, dispatcher)
		publisher = bus
		healthChecks = append(healthChecks, server.HealthCheck{Name: "redis", Check: redisClient.Ping})
	}

	authenticator := auth.NewAuthenticator(store)
	appSvc := app.NewService(store, publisher, auth.Permissions{})

	srv := server.NewServer(cfg, appSvc, authenticator, reg, healthChecks)

	done := runGracefulShutdown(cfg, srv, reg, bus)

	slog.Info("Server starting", "port", cfg.Port)
	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
