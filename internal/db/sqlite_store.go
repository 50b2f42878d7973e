package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/udisondev/tycoon/internal/db/migrations"
	"github.com/udisondev/tycoon/internal/engine"
)

// SQLiteSaveStore implements SaveStore on a local SQLite file.
type SQLiteSaveStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies migrations.
func OpenSQLite(ctx context.Context, path string) (*SQLiteSaveStore, error) {
	if path == "" {
		return nil, errors.New("opening sqlite: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating sqlite directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite %s: %w", path, err)
	}
	// Single writer; modernc serializes anyway.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	} {
		if _, err := sqlDB.ExecContext(ctx, pragma); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("applying %q: %w", pragma, err)
		}
	}

	if err := migrate(ctx, sqlDB, "sqlite3", migrations.SQLiteDir); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return &SQLiteSaveStore{db: sqlDB}, nil
}

// Save upserts the snapshot into slot.
func (s *SQLiteSaveStore) Save(ctx context.Context, slot string, snap engine.Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	saveID := uuid.New()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saves (slot, save_id, version, saved_at, payload)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (slot) DO UPDATE SET
			save_id = excluded.save_id,
			version = excluded.version,
			saved_at = excluded.saved_at,
			payload = excluded.payload`,
		slot, saveID.String(), PayloadVersion, time.Now().UTC().Format(time.RFC3339Nano), payload,
	)
	if err != nil {
		return fmt.Errorf("saving slot %q: %w", slot, err)
	}

	slog.Debug("snapshot saved", "slot", slot, "saveID", saveID, "bytes", len(payload))
	return nil
}

// Load reads the snapshot in slot.
func (s *SQLiteSaveStore) Load(ctx context.Context, slot string) (SavedGame, bool, error) {
	var (
		saveID  string
		savedAt string
		version int
		payload []byte
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT save_id, saved_at, version, payload FROM saves WHERE slot = ?`, slot,
	).Scan(&saveID, &savedAt, &version, &payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return SavedGame{}, false, nil
		}
		return SavedGame{}, false, fmt.Errorf("loading slot %q: %w", slot, err)
	}

	var saved SavedGame
	if saved.ID, err = uuid.Parse(saveID); err != nil {
		return SavedGame{}, false, fmt.Errorf("loading slot %q: parsing save id: %w", slot, err)
	}
	if saved.SavedAt, err = time.Parse(time.RFC3339Nano, savedAt); err != nil {
		return SavedGame{}, false, fmt.Errorf("loading slot %q: parsing saved_at: %w", slot, err)
	}
	if saved.Snapshot, err = decodeSnapshot(version, payload); err != nil {
		return SavedGame{}, false, fmt.Errorf("loading slot %q: %w", slot, err)
	}
	return saved, true, nil
}

// Close closes the database file.
func (s *SQLiteSaveStore) Close() {
	if err := s.db.Close(); err != nil {
		slog.Warn("closing sqlite", "error", err)
	}
}
