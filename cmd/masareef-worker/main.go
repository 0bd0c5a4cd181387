package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"masareef/internal/amqp"
	"masareef/internal/config"
	"masareef/internal/export"
	gsheet "masareef/internal/export/google"
	"masareef/internal/log"
	"masareef/internal/store"
	_ "masareef/internal/store/memory"
	_ "masareef/internal/store/sqlite"
	"masareef/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting masareef-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}

	backend, err := store.Open(store.Config{
		Type:       store.BackendType(cfg.DataBackend),
		SQLitePath: cfg.SQLiteDBPath,
	})
	if err != nil {
		logger.Error("Failed to open record store", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer backend.Close()

	var journal export.RowAppender
	if cfg.GoogleSpreadsheetID != "" {
		journal, err = gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
			os.Exit(1)
		}
		logger.Info("Google Sheets journal initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)
	} else {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(backend, backend, journal, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	consumeDone := make(chan error, 1)
	go func() {
		consumeDone <- amqpClient.ConsumeChanges(ctx, func(msg *amqp.ChangeMessage) error {
			return exportWorker.HandleChange(ctx, msg)
		})
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
		cancel()
		// Give the in-flight handler time to finish before closing
		// connections.
		select {
		case <-consumeDone:
		case <-time.After(5 * time.Second):
			logger.Warn("Shutdown timeout reached")
		}
	case err := <-consumeDone:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
		}
	}

	logger.Info("Worker stopped")
}
