// Command kasrt-init seeds the ledger sheet header row on a fresh
// workbook. One-shot: run it once when pointing at a new spreadsheet.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	gsheet "kasrt/internal/ledger/google"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cli, err := gsheet.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}

	if err := cli.InitHeaders(ctx); err != nil {
		logger.Error("Failed to initialize ledger headers", "error", err)
		os.Exit(1)
	}

	logger.Info("Ledger headers initialized")
}
