package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/settlement-reconciliation/internal/api_gateway"
	"github.com/settlement-reconciliation/internal/api_gateway/service"
	"github.com/settlement-reconciliation/internal/config"
	"github.com/settlement-reconciliation/internal/data/postgres"
	"github.com/settlement-reconciliation/internal/engine"
	"github.com/settlement-reconciliation/internal/ingestion"
	"github.com/settlement-reconciliation/internal/logger"
	"github.com/settlement-reconciliation/internal/platform/messaging/producers"
	"github.com/settlement-reconciliation/internal/platform/persistence"
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

	// Initialize database with app context
	postgresDB, err := persistence.NewPostgresDB(appCtx, log, &cfg.Postgres)
	if err != nil {
		log.Error("Failed to initialize PostgreSQL", "error", err)
		os.Exit(1)
	}

	// Initialize Kafka producer (publishes statement ingestion requests)
	kafkaProducer, err := producers.NewStatementReqMessageProducer(appCtx, log, &cfg.Kafka)
	if err != nil {
		log.Error("Failed to initialize statement Kafka producer", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	txnRepo := postgres.NewBankTransactionRepository(log, postgresDB)
	entryRepo := postgres.NewLedgerEntryRepository(log, postgresDB)
	recordRepo := postgres.NewReconciliationRepository(log, postgresDB)
	outboxRepo := postgres.NewOutboxRepository(log, postgresDB)

	// Initialize the reconciliation engine behind its serializing runner
	matchingEngine := engine.New(postgresDB, txnRepo, entryRepo, recordRepo, outboxRepo, log)
	passLock := postgres.NewPassLock(log, postgresDB)
	runner, err := engine.NewRunner(matchingEngine, passLock, log)
	if err != nil {
		log.Error("Failed to initialize reconciliation runner", "error", err)
		os.Exit(1)
	}

	// Initialize services
	ingester := ingestion.NewService(postgresDB, txnRepo, log)
	statementService := service.NewStatementService(log, ingester, txnRepo, recordRepo, kafkaProducer)
	reconciliationService := service.NewReconciliationService(log, runner, postgresDB, txnRepo, entryRepo, recordRepo)
	ledgerService := service.NewLedgerService(log, entryRepo)

	// Initialize REST server
	server := api_gateway.NewServer(log, cfg, statementService, reconciliationService, ledgerService)
	log.Info("REST server initialized")

	// Create error channel for server errors
	errChan := make(chan error, 1)

	// Start server in goroutine
	go func() {
		log.Info("Starting HTTP server", "port", cfg.Server.Port)
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

	// Graceful shutdown sequence
	log.Info("Starting graceful shutdown...")

	// Stop accepting new passes, then stop the HTTP server
	runner.Shutdown()

	if err = server.Stop(shutdownCtx); err != nil {
		log.Error("Error during server shutdown", "error", err)
	}

	if err = kafkaProducer.Close(); err != nil {
		log.Error("Error closing Kafka producer", "error", err)
	}

	// Shutdown postgres connection pool
	postgresDB.Close()

	// Final status
	if serverErr != nil {
		log.Error("HTTP server shutdown with errors", "error", serverErr)
	}
	if err != nil {
		log.Error("Server shutdown completed with errors")
	} else {
		log.Info("Server shutdown completed successfully")
	}
}
