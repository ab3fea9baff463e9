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

	"kasrt/internal/amqp"
	"kasrt/internal/config"
	apphttp "kasrt/internal/http"
	"kasrt/internal/ledger"
	gsheet "kasrt/internal/ledger/google"
	mem "kasrt/internal/ledger/memory"
	"kasrt/internal/proof"
	"kasrt/internal/services"
	"kasrt/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if !cfg.AdminEnabled() {
		logger.Warn("ADMIN_PASSWORD not set - dashboard runs read-only")
	}

	var (
		txLister   ledger.TransactionLister
		roster     ledger.RosterReader
		store      services.LedgerStore
		headers    ledger.HeaderInitializer
		amqpClient *amqp.Client
	)

	switch cfg.DataBackend {
	case "sheets":
		cli, err := gsheet.NewFromEnv(context.Background())
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err, "backend", cfg.DataBackend)
			os.Exit(1)
		}
		txLister, roster, store, headers = cli, cli, cli, cli
		logger.Info("Initialized Google Sheets backend", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		defer repo.Close()
		txLister, roster, store = repo, repo, repo

		// With AMQP configured, mutations are queued for the sync worker
		// to mirror into the Google Sheets workbook.
		if cfg.AMQPURL != "" {
			amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
			if err != nil {
				logger.Error("Failed to initialize AMQP client", "error", err)
				os.Exit(1)
			}
			defer amqpClient.Close()
			logger.Info("Sheet mirroring enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
		logger.Info("Initialized SQLite backend", "path", cfg.SQLiteDBPath)

	default:
		st := mem.NewFromFiles("data")
		txLister, roster, store = st, st, st
		logger.Info("Initialized memory backend", "backend", cfg.DataBackend)
	}

	proofs, err := proof.NewStore(cfg.ProofDir)
	if err != nil {
		logger.Error("Failed to initialize proof store", "error", err, "dir", cfg.ProofDir)
		os.Exit(1)
	}

	reports := services.NewReportService(txLister, roster)
	writer := services.NewLedgerService(store, amqpClient)

	srv := apphttp.NewServer(":"+cfg.Port, reports, writer, proofs, headers, cfg.AdminPassword)

	// Configure server timeouts and limits
	srv.ReadTimeout = 15 * time.Second
	srv.WriteTimeout = 15 * time.Second
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

	logger.Info("Starting kasrt server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
