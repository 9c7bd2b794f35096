package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mybank-ledger/config"
	httpHandler "mybank-ledger/internal/adapter/http/handler"
	memStorage "mybank-ledger/internal/adapter/storage/memory"
	pgStorage "mybank-ledger/internal/adapter/storage/postgres"
	redisStorage "mybank-ledger/internal/adapter/storage/redis"
	"mybank-ledger/internal/core/ports"
	"mybank-ledger/internal/service"
	"mybank-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting MyBank ledger service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize repositories
	userRepo := pgStorage.NewUserRepo(pool)
	accountRepo := pgStorage.NewAccountRepo(pool)
	txRepo := pgStorage.NewTransactionRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	healthCheckers := []ports.HealthChecker{pgStorage.NewHealthCheck(pool)}

	// Login limiter: in-process by default, redis-backed for multi-instance
	// deployments.
	var limiter ports.LoginLimiter
	if cfg.RateLimit.Backend == "redis" {
		rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to Redis")
		}
		defer rdb.Close()
		log.Info().Msg("Redis connected")

		limiter = redisStorage.NewLoginLimitStore(rdb, cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
		healthCheckers = append(healthCheckers, redisStorage.NewHealthCheck(rdb))
	} else {
		limiter = memStorage.NewLoginLimiter(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)
	}

	// Initialize core services
	hashSvc := service.NewBcryptHashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)

	// Initialize business services
	accountSvc := service.NewAccountService(accountRepo, txRepo, cfg.Bank.TransferPrefix, cfg.Bank.AccountNumberLength, log)
	authSvc := service.NewAuthService(userRepo, accountSvc, hashSvc, tokenSvc, limiter, log)
	ledgerSvc := service.NewLedgerService(transactor, accountRepo, txRepo, log)
	transferSvc := service.NewTransferService(transactor, accountRepo, txRepo, accountSvc, cfg.Ledger.LegacyTransferTypes, log)
	historySvc := service.NewHistoryService(txRepo)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:        authSvc,
		AccountSvc:     accountSvc,
		LedgerSvc:      ledgerSvc,
		TransferSvc:    transferSvc,
		HistorySvc:     historySvc,
		TokenSvc:       tokenSvc,
		HealthCheckers: healthCheckers,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
