// Package backend builds the state persister selected by configuration.
package backend

import (
	"context"
	"fmt"
	"log/slog"

	"cuzdan/internal/config"
	"cuzdan/internal/core"
	"cuzdan/internal/storage"
	"cuzdan/internal/store"
)

// BackendType represents the type of persistence backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	FileBackend   BackendType = "file"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, FileBackend, MemoryBackend:
		return true
	default:
		return false
	}
}

// CleanupFunc releases resources held by a backend.
type CleanupFunc func() error

// HealthChecker is implemented by persisters that can report readiness.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// BackendResult contains the persister and an optional cleanup function
type BackendResult struct {
	Persister store.Persister
	Cleanup   CleanupFunc
}

// Config holds configuration for backend creation
type Config struct {
	Type          BackendType
	SQLiteDBPath  string
	StateFilePath string
	StorageKey    string
}

// FromAppConfig converts the application config to backend config
func FromAppConfig(appConfig *config.Config) (Config, error) {
	if appConfig == nil {
		return Config{}, fmt.Errorf("app config is nil")
	}

	backendType := BackendType(appConfig.StorageBackend)
	if !backendType.IsValid() {
		return Config{}, fmt.Errorf("invalid backend type in config: %s", appConfig.StorageBackend)
	}

	return Config{
		Type:          backendType,
		SQLiteDBPath:  appConfig.SQLiteDBPath,
		StateFilePath: appConfig.StateFilePath,
		StorageKey:    appConfig.StorageKey,
	}, nil
}

// Create builds the persister for cfg.
func Create(ctx context.Context, cfg Config, logger *slog.Logger) (*BackendResult, error) {
	if logger == nil {
		logger = slog.Default()
	}
	key := cfg.StorageKey
	if key == "" {
		key = core.DefaultStorageKey
	}

	switch cfg.Type {
	case SQLiteBackend:
		if cfg.SQLiteDBPath == "" {
			return nil, fmt.Errorf("SQLite database path is required for sqlite backend")
		}
		p, err := storage.NewSQLitePersister(cfg.SQLiteDBPath, key)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite persister: %w", err)
		}
		logger.InfoContext(ctx, "Initialized SQLite backend", "db_path", cfg.SQLiteDBPath, "key", key)
		return &BackendResult{Persister: p, Cleanup: p.Close}, nil

	case FileBackend:
		if cfg.StateFilePath == "" {
			return nil, fmt.Errorf("state file path is required for file backend")
		}
		p, err := storage.NewFilePersister(cfg.StateFilePath, key)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file persister: %w", err)
		}
		logger.InfoContext(ctx, "Initialized file backend", "path", cfg.StateFilePath, "key", key)
		return &BackendResult{Persister: p}, nil

	case MemoryBackend:
		logger.InfoContext(ctx, "Initialized memory backend, state is lost on exit")
		return &BackendResult{Persister: storage.NewMemoryPersister(core.State{})}, nil

	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}

// Close runs the cleanup function if there is one.
func (r *BackendResult) Close() error {
	if r == nil || r.Cleanup == nil {
		return nil
	}
	return r.Cleanup()
}

// GetBackendTypes returns all valid backend types
func GetBackendTypes() []BackendType {
	return []BackendType{SQLiteBackend, FileBackend, MemoryBackend}
}
