package cli

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"cuzdan/internal/config"
	"cuzdan/internal/core"
	"cuzdan/internal/log"
)

func testConfig(backendType string, dir string) *config.Config {
	return &config.Config{
		Port:                 "8081",
		RateLimitPerMinute:   60,
		StorageBackend:       backendType,
		SQLiteDBPath:         filepath.Join(dir, "cuzdan.db"),
		StateFilePath:        filepath.Join(dir, "state.json"),
		StorageKey:           "cuzdan-storage",
		Timezone:             "UTC",
		CleanupCheckInterval: time.Hour,
		UpcomingHorizonDays:  30,
		ReportCacheSize:      16,
		ReportCacheTTL:       time.Minute,
		LogLevel:             "debug",
	}
}

func TestOpenStorageRoundTrip(t *testing.T) {
	for _, backendType := range []string{"sqlite", "file"} {
		t.Run(backendType, func(t *testing.T) {
			ctx := context.Background()
			cfg := testConfig(backendType, t.TempDir())
			logger := SetupLogger(cfg, log.ComponentCLI)

			s, err := OpenStorage(ctx, cfg, logger)
			if err != nil {
				t.Fatalf("open: %v", err)
			}
			if err := s.HealthCheck(ctx); err != nil {
				t.Fatalf("health: %v", err)
			}
			p, err := s.Store.AddProfile(ctx, core.ProfileInput{Name: "Home", Currency: core.TRY})
			if err != nil {
				t.Fatalf("add profile: %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("close: %v", err)
			}

			reopened, err := OpenStorage(ctx, cfg, logger)
			if err != nil {
				t.Fatalf("reopen: %v", err)
			}
			defer reopened.Close()
			if _, ok := reopened.Store.Profile(p.ID); !ok {
				t.Fatal("profile not persisted across reopen")
			}
		})
	}
}

func TestOpenStorageRejectsUnknownBackend(t *testing.T) {
	cfg := testConfig("sheets", t.TempDir())
	if _, err := OpenStorage(context.Background(), cfg, SetupLogger(nil, log.ComponentCLI)); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestSetupLoggerLevel(t *testing.T) {
	logger := SetupLogger(testConfig("memory", t.TempDir()), log.ComponentWorker)
	if logger.Component() != log.ComponentWorker {
		t.Fatalf("component = %q", logger.Component())
	}
	if !logger.Enabled(context.Background(), -4) {
		t.Fatal("debug level should be enabled")
	}
}

func TestNewReportWriterDisabled(t *testing.T) {
	w, err := NewReportWriter(context.Background(), testConfig("memory", t.TempDir()))
	if err != nil || w != nil {
		t.Fatalf("writer = %v, err = %v", w, err)
	}
}
