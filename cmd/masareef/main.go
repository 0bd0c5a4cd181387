package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"masareef/internal/amqp"
	"masareef/internal/auth"
	"masareef/internal/config"
	apphttp "masareef/internal/http"
	"masareef/internal/log"
	"masareef/internal/services"
	"masareef/internal/store"
	_ "masareef/internal/store/memory"
	_ "masareef/internal/store/sqlite"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting masareef")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
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
	logger.Info("Record store opened", "backend", cfg.DataBackend)

	// Change events are optional; without AMQP the export pipeline is off
	// and mutations work unchanged.
	var events services.ChangePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", log.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
		logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("Change events disabled - no AMQP_URL provided")
	}

	authSvc := auth.NewService(backend, backend, cfg.SessionTTL, logger)
	expenses := services.NewExpenseService(backend, events, logger)
	salaries := services.NewSalaryService(backend, events, logger)
	settings := services.NewSettingsService(backend, logger)
	dashboard := services.NewDashboardService(expenses, salaries, settings, time.Weekday(cfg.WeekStart))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := authSvc.Start(ctx); err != nil {
		logger.Error("Identity provider startup failed", log.FieldError, err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, authSvc, expenses, salaries, settings, dashboard, logger)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting HTTP server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
