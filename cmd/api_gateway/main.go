package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	goredis "github.com/redis/go-redis/v9"

	"github.com/workshop-financial-engine/internal/api_gateway"
	"github.com/workshop-financial-engine/internal/api_gateway/service"
	"github.com/workshop-financial-engine/internal/config"
	"github.com/workshop-financial-engine/internal/data/mongo"
	"github.com/workshop-financial-engine/internal/data/postgres"
	"github.com/workshop-financial-engine/internal/data/redis"
	"github.com/workshop-financial-engine/internal/domain/report"
	"github.com/workshop-financial-engine/internal/ledgerstore"
	"github.com/workshop-financial-engine/internal/logger"
	"github.com/workshop-financial-engine/internal/platform/messaging/producers"
	"github.com/workshop-financial-engine/internal/platform/persistence"
)

func main() {
	// Create base context with cancellation
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	// Initialize configuration
	cfg, err := config.LoadConfig("api_gateway")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger(cfg)

	registryOpts, err := ledgerstore.RegistryOptions(&cfg.Reporting)
	if err != nil {
		log.Error("Invalid classification rules", "error", err)
		os.Exit(1)
	}

	// Initialize databases with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	mongoDB, err := persistence.NewMongoDB(appCtx, log, &cfg.MongoDB)
	if err != nil {
		log.Error("Failed to initialize MongoDB", "error", err)
		os.Exit(1)
	}

	// The snapshot cache is optional; reports are recomputed without it
	var (
		redisClient *goredis.Client
		cache       report.SnapshotCache
	)
	if cfg.Redis.Enabled {
		redisClient, err = persistence.NewRedisClient(appCtx, log, &cfg.Redis)
		if err != nil {
			log.Warn("Redis unavailable, report caching disabled", "error", err)
		} else {
			cache = redis.NewSnapshotCache(log, redisClient, cfg.Redis.KeyPrefix, cfg.Redis.SnapshotTTL)
		}
	}

	// Initialize Kafka producer for API Gateway (publishes to the sale topic)
	saleProducer, err := producers.NewSaleEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize sale event producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	journalRepo := postgres.NewJournalRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	saleRepo := mongo.NewSaleRepository(log, mongoDB.Database())
	if err := saleRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create sale indexes", "error", err)
		os.Exit(1)
	}

	store := ledgerstore.NewStore(postgresDB, accountRepo, journalRepo, outboxRepo, log, registryOpts...)

	// Initialize services
	services := api_gateway.Services{
		Accounts:  service.NewAccountService(log, accountRepo),
		Ledger:    service.NewLedgerService(log, store),
		Sales:     service.NewSaleService(log, saleRepo, saleProducer),
		Reports:   service.NewReportService(log, store, cache, cfg.Reporting.StrictClassification),
		Analytics: service.NewAnalyticsService(log, saleRepo, store, cfg.Analytics),
	}

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, services)
	log.Info("REST server initialized", "report_cache", cache != nil)

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		if err := server.Start(); err != nil {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Set up signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// Wait for a shutdown signal or error
	var serverErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Server error occurred", "error", err)
		serverErr = err
	}

	// Cancel the application context
	cancelAppCtx()

	// Create a shutdown context with timeout
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	// Graceful shutdown sequence: stop accepting requests before closing what they use
	log.Info("Starting graceful shutdown...")

	var closeErrs []error
	if err := server.Stop(shutdownCtx); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("server shutdown: %w", err))
	}
	if err := saleProducer.Close(); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("kafka producer: %w", err))
	}
	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			closeErrs = append(closeErrs, fmt.Errorf("redis: %w", err))
		}
	}
	postgresDB.Close()
	if err := mongoDB.Close(shutdownCtx); err != nil {
		closeErrs = append(closeErrs, fmt.Errorf("mongodb: %w", err))
	}

	// Final status
	for _, err := range closeErrs {
		log.Error("Error during shutdown", "error", err)
	}
	if serverErr != nil || len(closeErrs) > 0 {
		log.Error("Server shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Server shutdown completed successfully")
}
