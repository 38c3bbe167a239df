package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"remitconnect/internal/amqp"
	"remitconnect/internal/config"
	"remitconnect/internal/draft"
	apphttp "remitconnect/internal/http"
	"remitconnect/internal/remitapi"
	"remitconnect/internal/services"
	"remitconnect/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg := config.Load()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// Initialize SQLite repository for the local transaction ledger
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Initialize the remote catalog client (wallets and recipients)
	catalog, err := remitapi.NewClient(cfg.CatalogBaseURL, cfg.CatalogTimeout)
	if err != nil {
		logger.Error("Failed to initialize catalog client", "error", err, "base_url", cfg.CatalogBaseURL)
		os.Exit(1)
	}

	// Initialize AMQP client for transfer events (optional)
	var events services.EventPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		events = amqpClient
		logger.Info("AMQP event publishing enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	coordinator := services.NewCoordinator(catalog, repo, events, draft.NewStore(), cfg.Allowance)

	// Warm the catalog states so the first screen render finds data ready.
	warmCtx, warmCancel := context.WithTimeout(context.Background(), cfg.CatalogTimeout)
	var warm errgroup.Group
	warm.Go(func() error {
		coordinator.RefreshAll(warmCtx)
		return nil
	})
	defer warmCancel()

	srv := apphttp.NewServer(":"+cfg.Port, coordinator, cfg.CatalogCacheTTL)

	// Configure server timeouts and limits
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting remitd server", "port", cfg.Port, "catalog_url", cfg.CatalogBaseURL)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	_ = warm.Wait()
	logger.Info("Server stopped gracefully")
}
