package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cuzdan/internal/core"

	_ "modernc.org/sqlite"
)

// SQLitePersister stores the state document as one JSON row per storage key.
type SQLitePersister struct {
	db  *sql.DB
	key string
}

func NewSQLitePersister(dbPath, key string) (*SQLitePersister, error) {
	if key == "" {
		key = core.DefaultStorageKey
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// one writer at a time keeps SQLite out of "database is locked"
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	version, err := MigrateUp(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	slog.Debug("SQLite schema ready", "path", dbPath, "schema_version", version)

	return &SQLitePersister{db: db, key: key}, nil
}

func (p *SQLitePersister) Close() error {
	if p.db != nil {
		return p.db.Close()
	}
	return nil
}

// Load returns the stored state, or an empty state if nothing was saved yet.
func (p *SQLitePersister) Load(ctx context.Context) (core.State, error) {
	var doc string
	err := p.db.QueryRowContext(ctx,
		`SELECT document FROM app_state WHERE storage_key = ?`, p.key).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return core.State{}, nil
	}
	if err != nil {
		return core.State{}, fmt.Errorf("query state: %w", err)
	}

	var st core.State
	if err := json.Unmarshal([]byte(doc), &st); err != nil {
		return core.State{}, fmt.Errorf("decode state: %w", err)
	}
	return st, nil
}

// Save replaces the stored state.
func (p *SQLitePersister) Save(ctx context.Context, st core.State) error {
	doc, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	_, err = p.db.ExecContext(ctx, `
		INSERT INTO app_state (storage_key, document) VALUES (?, ?)
		ON CONFLICT(storage_key) DO UPDATE SET
			document = excluded.document,
			version = app_state.version + 1,
			updated_at = CURRENT_TIMESTAMP`,
		p.key, string(doc))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}

	slog.DebugContext(ctx, "State saved to SQLite",
		"key", p.key,
		"profiles", len(st.Profiles),
		"transactions", len(st.Transactions))
	return nil
}

// HealthCheck verifies the database connection.
func (p *SQLitePersister) HealthCheck(ctx context.Context) error {
	return p.db.PingContext(ctx)
}
