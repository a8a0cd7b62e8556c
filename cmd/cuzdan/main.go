package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"cuzdan/internal/amqp"
	"cuzdan/internal/cache"
	"cuzdan/internal/cli"
	apphttp "cuzdan/internal/http"
	"cuzdan/internal/log"
	"cuzdan/internal/services"
)

func main() {
	cli.LoadEnvFile()

	cfg := cli.LoadAndValidateConfig(cli.SetupLogger(nil, log.ComponentApp))
	logger := cli.SetupLogger(cfg, log.ComponentApp)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	storage, err := cli.OpenStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to open storage", log.FieldError, err, "backend", cfg.StorageBackend)
		os.Exit(1)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logger.Error("Failed to close storage", log.FieldError, err)
		}
	}()

	writer, err := cli.NewReportWriter(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize report writer", log.FieldError, err)
		os.Exit(1)
	}

	// Export requests go to the queue when AMQP is configured, otherwise
	// they are written synchronously when a sink exists.
	var publisher services.ExportPublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(ctx, cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, exports fall back to direct writes", log.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	var exports *services.ExportService
	if publisher != nil || writer != nil {
		exports = services.NewExportService(storage.Store, writer, publisher)
	} else {
		logger.Info("Report exports disabled, set AMQP_URL or GOOGLE_SPREADSHEET_ID to enable")
	}

	srv := apphttp.NewServer(":"+cfg.Port, storage.Store, apphttp.Options{
		Logger:             logger,
		Exports:            exports,
		ReadyCheck:         storage.HealthCheck,
		UpcomingHorizon:    cfg.UpcomingHorizonDays,
		ReportCacheSize:    cfg.ReportCacheSize,
		ReportCacheTTL:     cfg.ReportCacheTTL,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		TrustedProxies:     cfg.TrustedProxies,
	})

	caches := cache.NewManager()
	caches.Register(srv.ReportCache())
	caches.StartCleanup(cfg.ReportCacheTTL)
	defer caches.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting cuzdan server", "port", cfg.Port, "backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return storage.Store.RunCleanupLoop(gctx, cfg.CleanupCheckInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
