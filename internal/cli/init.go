// Package cli provides common initialization utilities shared by the
// cuzdan server, the export worker and cuzdanctl.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"cuzdan/internal/backend"
	"cuzdan/internal/config"
	"cuzdan/internal/log"
	"cuzdan/internal/sheets"
	gsheet "cuzdan/internal/sheets/google"
	"cuzdan/internal/store"
)

// SetupLogger builds the process logger at level from cfg and makes it the
// slog default. A nil cfg logs at info.
func SetupLogger(cfg *config.Config, component string) *log.Logger {
	lc := log.DefaultConfig()
	lc.Component = component
	if cfg != nil {
		if level, err := cfg.SlogLevel(); err == nil {
			lc.Level = level
		}
	}
	logger := log.New(lc)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadConfig loads and validates configuration from the environment.
func LoadConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg, err := LoadConfig()
	if err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// Storage bundles an opened store with its backend.
type Storage struct {
	Store   *store.Store
	Backend *backend.BackendResult
}

// HealthCheck reports backend readiness. Backends without a check are
// always ready.
func (s *Storage) HealthCheck(ctx context.Context) error {
	if hc, ok := s.Backend.Persister.(backend.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// Close releases the backend.
func (s *Storage) Close() error {
	return s.Backend.Close()
}

// OpenStorage creates the configured backend and loads the store from it.
func OpenStorage(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Storage, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	res, err := backend.Create(ctx, bcfg, logger.Logger.With(log.FieldComponent, log.ComponentBackend))
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		_ = res.Close()
		return nil, fmt.Errorf("load timezone: %w", err)
	}
	st, err := store.Open(ctx, res.Persister, store.WithLocation(loc))
	if err != nil {
		_ = res.Close()
		return nil, err
	}
	return &Storage{Store: st, Backend: res}, nil
}

// NewReportWriter returns the Google Sheets sink when a spreadsheet is
// configured, or nil.
func NewReportWriter(ctx context.Context, cfg *config.Config) (sheets.ReportWriter, error) {
	if !cfg.SheetsEnabled() {
		return nil, nil
	}
	client, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   cfg.GoogleSpreadsheetID,
		CredentialsJSON: cfg.GoogleServiceAccountJSON,
		CredentialsFile: cfg.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("init google sheets: %w", err)
	}
	return client, nil
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM. The
// returned cancel func releases the signal handler.
func SignalContext(parent context.Context, logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Shutdown signal received", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}
