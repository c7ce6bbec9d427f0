// Package main - точка входа сервиса прогрессии LearnPath.
//
// Движок прогрессии и персистентности: XP, уровни, дневные серии,
// прохождение модулей и уроков, бейджи и достижения - всё долговременно
// сохраняется в выбранном KV-бэкенде и отдаётся наружу тонким REST-фасадом.
//
// Архитектура следует принципам Clean Architecture:
// - Domain: чистые правила прогрессии без внешних зависимостей
// - Application: фасад прогрессии (единственная граница композиции)
// - Infrastructure: бэкенды хранилища, каталоги, шина событий
// - Interface: HTTP endpoints
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/learnpath/learnpath-progress/config"
	"github.com/learnpath/learnpath-progress/internal/application/progress"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/catalog"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/messaging"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/persistence"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/persistence/kv"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/persistence/postgres"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/persistence/redis"
	"github.com/learnpath/learnpath-progress/internal/infrastructure/persistence/sqlite"
	httpserver "github.com/learnpath/learnpath-progress/internal/interface/http"
	"github.com/learnpath/learnpath-progress/pkg/logger"
	"github.com/learnpath/learnpath-progress/pkg/retry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "progressd: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env необязателен: в production конфигурация приходит из окружения.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level: logger.ParseLevel(cfg.App.LogLevel),
	}).With(
		logger.String("service", cfg.App.Name),
		logger.String("env", cfg.App.Environment),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──────────────────────────────────────────────
	// Хранилище
	// ──────────────────────────────────────────────
	backend, err := buildBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("store backend %q: %w", cfg.Store.Backend, err)
	}
	defer backend.Close()

	retrier := retry.New(retry.Config{
		MaxAttempts:  cfg.Retry.MaxAttempts,
		InitialDelay: cfg.Retry.InitialDelay,
		MaxDelay:     cfg.Retry.MaxDelay,
	})
	store := persistence.NewSnapshotStore(backend, log, retrier)

	// ──────────────────────────────────────────────
	// Фасад
	// ──────────────────────────────────────────────
	bus := messaging.NewInMemoryBus(log)
	bus.SubscribeAll(func(event shared.Event) {
		log.Debug("domain event",
			logger.String("event_type", string(event.EventType())),
			logger.LearnerID(event.AggregateID()),
		)
	})

	service := progress.NewService(
		store,
		catalog.NewStaticBadgeCatalog(),
		catalog.NewStaticModuleCatalog(nil),
		bus,
		log,
	)

	// ──────────────────────────────────────────────
	// HTTP
	// ──────────────────────────────────────────────
	server := httpserver.NewServer(httpserver.Config{
		Host:            cfg.HTTP.Host,
		Port:            cfg.HTTP.Port,
		ReadTimeout:     cfg.HTTP.ReadTimeout,
		WriteTimeout:    cfg.HTTP.WriteTimeout,
		ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
	}, service, log)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	log.Info("progressd started",
		logger.String("backend", string(cfg.Store.Backend)),
		logger.String("address", fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)),
	)

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return err
		}
	}

	shutdownCtx := context.Background()
	if err := server.Stop(shutdownCtx); err != nil {
		log.Error("http shutdown failed", logger.Err(err))
	}
	log.Info("progressd stopped")
	return nil
}

// buildBackend создаёт KV-бэкенд по конфигурации.
func buildBackend(ctx context.Context, cfg *config.Config) (kv.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return kv.NewMemoryStore(), nil

	case config.BackendSQLite:
		return sqlite.NewStore(ctx, cfg.SQLite.Path)

	case config.BackendRedis:
		redisCfg := redis.DefaultConfig()
		redisCfg.Host = cfg.Redis.Host
		redisCfg.Port = cfg.Redis.Port
		redisCfg.Password = cfg.Redis.Password
		redisCfg.DB = cfg.Redis.DB
		return redis.NewStore(ctx, redisCfg)

	case config.BackendPostgres:
		pgCfg := postgres.DefaultConfig()
		pgCfg.Host = cfg.Postgres.Host
		pgCfg.Port = cfg.Postgres.Port
		pgCfg.Database = cfg.Postgres.Database
		pgCfg.User = cfg.Postgres.User
		pgCfg.Password = cfg.Postgres.Password
		pgCfg.SSLMode = cfg.Postgres.SSLMode
		return postgres.NewStore(ctx, pgCfg)

	default:
		return nil, fmt.Errorf("unknown backend")
	}
}
