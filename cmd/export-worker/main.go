package main

import (
	"context"
	"errors"
	"os"

	"cuzdan/internal/amqp"
	"cuzdan/internal/cli"
	"cuzdan/internal/log"
	"cuzdan/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(nil, log.ComponentWorker))
	logger := cli.SetupLogger(cfg, log.ComponentWorker)

	logger.Info("Starting export-worker")

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker")
		os.Exit(1)
	}
	if !cfg.SheetsEnabled() {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the export worker")
		os.Exit(1)
	}
	// The worker reads the state the server saved, so it needs a shared backend.
	if cfg.StorageBackend == "memory" {
		logger.Error("Memory storage backend cannot be shared with the server", "backend", cfg.StorageBackend)
		os.Exit(1)
	}

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	storage, err := cli.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldError, err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	defer storage.Close()

	writer, err := cli.NewReportWriter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Google Sheets client initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	amqpClient, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	exportWorker := worker.NewExportWorker(storage.Backend.Persister, writer)

	err = amqpClient.ConsumeExportRequests(ctx, exportWorker.HandleExportRequest)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Export worker stopped gracefully")
}
