// Copyright (c) 2026 Mercado. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Mercado HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Open the document store selected by STORE_DRIVER (migrating PostgreSQL).
//  4. Connect to Redis when REDIS_URL is set.
//  5. Wire services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/mercado/internal/api"
	"github.com/taibuivan/mercado/internal/commerce/business"
	"github.com/taibuivan/mercado/internal/commerce/product"
	"github.com/taibuivan/mercado/internal/platform/config"
	"github.com/taibuivan/mercado/internal/platform/constants"
	"github.com/taibuivan/mercado/internal/platform/docstore"
	"github.com/taibuivan/mercado/internal/platform/docstore/memory"
	mongostore "github.com/taibuivan/mercado/internal/platform/docstore/mongo"
	pgdocstore "github.com/taibuivan/mercado/internal/platform/docstore/postgres"
	"github.com/taibuivan/mercado/internal/platform/metrics"
	"github.com/taibuivan/mercado/internal/platform/migration"
	pgstore "github.com/taibuivan/mercado/internal/platform/postgres"
	redisstore "github.com/taibuivan/mercado/internal/platform/redis"
	"github.com/taibuivan/mercado/internal/platform/sec"
	"github.com/taibuivan/mercado/internal/users/account"
	"github.com/taibuivan/mercado/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("store_driver", cfg.StoreDriver),
		slog.Bool("login_throttle", cfg.LoginThrottleEnabled()),
	)

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Document Store ─────────────────────────────────────────────────
	store, err := openStore(startupCtx, cfg, log)
	must(log, err, "open document store")
	defer func() {
		log.Info("closing_document_store")
		if cerr := store.Close(context.Background()); cerr != nil {
			log.Error("document_store_close_failed", slog.Any("error", cerr))
		}
	}()

	probes := []api.Probe{{Name: cfg.StoreDriver, Check: store.Ping}}

	// ── 4. Redis (optional) ───────────────────────────────────────────────
	var attempts auth.LoginAttemptRepository = auth.NoopLoginAttempts{}
	if cfg.LoginThrottleEnabled() {
		rdb, err := redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_failed", slog.Any("error", cerr))
			}
		}()

		attempts = auth.NewLoginAttemptRepository(rdb, cfg.LoginAttemptWindow)
		probes = append(probes, api.Probe{Name: "redis", Check: redisProbe(rdb)})
	}

	// ── 5. Security Primitives ────────────────────────────────────────────
	codec, err := sec.NewTokenCodec(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	must(log, err, "initialize token codec")
	hasher := sec.NewPasswordHasher(cfg.BcryptCost)
	recorder := metrics.New()

	// ── 6. Domain Wiring ──────────────────────────────────────────────────
	userRepository := auth.NewUserRepository(store.Collection(constants.CollectionUsers))
	verifier := auth.NewSessionVerifier(codec, userRepository, recorder)
	authService := auth.NewService(auth.Dependencies{
		Users:            userRepository,
		Attempts:         attempts,
		Hasher:           hasher,
		Codec:            codec,
		Verifier:         verifier,
		Metrics:          recorder,
		MaxLoginAttempts: cfg.LoginMaxAttempts,
	})

	accountService := account.NewService(userRepository)

	businessRepository := business.NewRepository(store.Collection(constants.CollectionBusinesses))
	businessService := business.NewService(businessRepository, accountService)

	productRepository := product.NewRepository(store.Collection(constants.CollectionProducts))
	productService := product.NewService(productRepository, businessRepository)

	liveness, readiness := api.NewHealthHandlers(log, probes...)

	// ── 7. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	server := api.NewServer(serverCtx, api.Dependencies{
		Config:        cfg,
		Logger:        log,
		Authenticator: verifier,
		Metrics:       recorder,
	}, api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      auth.NewHandler(authService),
		Account:   account.NewHandler(accountService),
		Business:  business.NewHandler(businessService),
		Product:   product.NewHandler(productService),
	})

	// ── 8. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_failed", slog.Any("error", err))
	}

	log.Info("shutting_down", slog.Duration("timeout", constants.ShutdownTimeout))
	if err := server.Shutdown(constants.ShutdownTimeout); err != nil {
		log.Error("shutdown_failed", slog.Any("error", err))
	}

	log.Info("server_stopped")
}

func newLogger(level slog.Level) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})).
		With(slog.String("app", constants.AppName))
	slog.SetDefault(logger)
	return logger
}

// openStore connects the configured backend and prepares its unique indexes.
func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (docstore.Store, error) {
	uniqueUserFields := []string{auth.FieldEmail, auth.FieldUsername}

	switch cfg.StoreDriver {
	case config.DriverMongo:
		store, err := mongostore.Connect(ctx, cfg.MongoURL, cfg.DatabaseName, log)
		if err != nil {
			return nil, err
		}
		for _, field := range uniqueUserFields {
			if err := store.EnsureUniqueIndex(ctx, constants.CollectionUsers, field); err != nil {
				_ = store.Close(ctx)
				return nil, err
			}
		}
		return store, nil

	case config.DriverPostgres:
		if err := migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log); err != nil {
			return nil, err
		}
		pool, err := pgstore.NewPool(ctx, cfg.DatabaseURL, pgstore.PoolOptions{
			MaxConns: cfg.PostgresMaxConns,
			MinConns: cfg.PostgresMinConns,
		}, log)
		if err != nil {
			return nil, err
		}
		return pgdocstore.New(pool), nil

	case config.DriverMemory:
		log.Warn("memory_store_in_use", slog.String("hint", "data is lost on restart"))
		options := make([]memory.Option, 0, len(uniqueUserFields))
		for _, field := range uniqueUserFields {
			options = append(options, memory.WithUnique(constants.CollectionUsers, field))
		}
		return memory.New(options...), nil

	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.StoreDriver)
	}
}

func redisProbe(client *goredis.Client) func(context.Context) error {
	return func(ctx context.Context) error {
		return redisstore.Ping(ctx, client)
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
// Only used during startup wiring.
func must(log *slog.Logger, err error, step string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("step", step),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
