package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/workshop-financial-engine/internal/config"
	"github.com/workshop-financial-engine/internal/data/mongo"
	"github.com/workshop-financial-engine/internal/data/postgres"
	"github.com/workshop-financial-engine/internal/ledgerstore"
	"github.com/workshop-financial-engine/internal/logger"
	"github.com/workshop-financial-engine/internal/platform/messaging/consumers"
	"github.com/workshop-financial-engine/internal/platform/messaging/producers"
	"github.com/workshop-financial-engine/internal/platform/persistence"
	"github.com/workshop-financial-engine/internal/posting_processor/components"
	"github.com/workshop-financial-engine/internal/posting_processor/consumer"
	"github.com/workshop-financial-engine/internal/posting_processor/outbox_poller"
	"github.com/workshop-financial-engine/internal/posting_processor/service"
)

func main() {
	appCtx, cancelAppCtx := context.WithCancel(context.Background())
	defer cancelAppCtx()

	cfg, err := config.LoadConfig("posting_processor")
	if err != nil {
		// logger is not initialized yet, so we use fmt
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewLogger(cfg)

	log.Info("Starting Posting Processor",
		"app_name", cfg.Application.Name,
		"env", cfg.Application.Env,
	)

	registryOpts, err := ledgerstore.RegistryOptions(&cfg.Reporting)
	if err != nil {
		log.Error("Invalid classification rules", "error", err)
		os.Exit(1)
	}

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

	accountRepo := postgres.NewAccountRepository(log, postgresDB)
	journalRepo := postgres.NewJournalRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)
	saleRepo := mongo.NewSaleRepository(log, mongoDB.Database())
	if err := saleRepo.EnsureIndexes(appCtx); err != nil {
		log.Error("Failed to create sale indexes", "error", err)
		os.Exit(1)
	}

	store := ledgerstore.NewStore(postgresDB, accountRepo, journalRepo, outboxRepo, log, registryOpts...)

	kafkaConsumer := consumers.NewKafkaConsumer(appCtx, log, &cfg.Kafka)

	dlqProducer, err := producers.NewDLQProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize DLQ Kafka producer", "error", err)
		os.Exit(1)
	}

	ledgerEventProducer, err := producers.NewLedgerEventProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize ledger event producer", "error", err)
		os.Exit(1)
	}

	processingService := components.CreateProcessingService(store, saleRepo, dlqProducer, log, cfg)

	saleEventHandler := consumer.NewSaleEventHandler(log, processingService, dlqProducer)

	eventPublisher := outbox_poller.NewEventPublisher(outboxRepo, ledgerEventProducer, log)
	poller := outbox_poller.NewPoller(&cfg.Outbox, outboxRepo, eventPublisher, log)

	errChan := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Info("Starting Kafka consumer",
			"topic", cfg.Kafka.SaleTopic,
			"group", cfg.Kafka.ConsumerGroup,
		)
		if err := kafkaConsumer.Subscribe(appCtx, cfg.Kafka.SaleTopic, cfg.Kafka.ConsumerGroup, saleEventHandler.HandleMessage); err != nil {
			errChan <- fmt.Errorf("kafka consumer error: %w", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Start(appCtx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	var serviceErr error
	select {
	case <-quit:
		log.Info("Shutdown signal received")
	case err := <-errChan:
		log.Error("Service error occurred", "error", err)
		serviceErr = err
	}

	cancelAppCtx()

	if wpService, ok := processingService.(*service.WorkerPoolProcessingService); ok {
		wpService.Shutdown()
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()

	log.Info("Waiting for services to stop...")
	wgChan := make(chan struct{})
	go func() {
		wg.Wait()
		close(wgChan)
	}()

	select {
	case <-wgChan:
		log.Info("All services stopped successfully")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout reached, forcing exit")
	}

	var closeErrs []error
	if err := ledgerEventProducer.Close(); err != nil {
		closeErrs = append(closeErrs, err)
	}
	if err := dlqProducer.Close(); err != nil {
		closeErrs = append(closeErrs, err)
	}
	if err := kafkaConsumer.Close(); err != nil {
		closeErrs = append(closeErrs, err)
	}
	postgresDB.Close()
	if err := mongoDB.Close(shutdownCtx); err != nil {
		closeErrs = append(closeErrs, err)
	}

	for _, err := range closeErrs {
		log.Error("Error during shutdown", "error", err)
	}
	if serviceErr != nil || len(closeErrs) > 0 {
		log.Error("Posting Processor shutdown completed with errors")
		os.Exit(1)
	}
	log.Info("Posting Processor shutdown completed successfully")
}
