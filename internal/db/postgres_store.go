package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/tycoon/internal/engine"
)

// PostgresSaveStore implements SaveStore on PostgreSQL.
type PostgresSaveStore struct {
	pool *pgxpool.Pool
}

// NewPostgresSaveStore creates a store on an already migrated pool.
func NewPostgresSaveStore(pool *pgxpool.Pool) *PostgresSaveStore {
	return &PostgresSaveStore{pool: pool}
}

// OpenPostgres connects, applies migrations and returns a store owning the pool.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresSaveStore, error) {
	if err := RunMigrations(ctx, dsn); err != nil {
		return nil, err
	}
	database, err := New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return NewPostgresSaveStore(database.Pool()), nil
}

// Save upserts the snapshot into slot.
func (s *PostgresSaveStore) Save(ctx context.Context, slot string, snap engine.Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}

	saveID := uuid.New()
	_, err = s.pool.Exec(ctx,
		`INSERT INTO saves (slot, save_id, version, saved_at, payload)
		 VALUES ($1, $2, $3, NOW(), $4)
		 ON CONFLICT (slot) DO UPDATE SET
			save_id = EXCLUDED.save_id,
			version = EXCLUDED.version,
			saved_at = EXCLUDED.saved_at,
			payload = EXCLUDED.payload`,
		slot, saveID, PayloadVersion, payload,
	)
	if err != nil {
		return fmt.Errorf("saving slot %q: %w", slot, err)
	}

	slog.Debug("snapshot saved", "slot", slot, "saveID", saveID, "bytes", len(payload))
	return nil
}

// Load reads the snapshot in slot.
func (s *PostgresSaveStore) Load(ctx context.Context, slot string) (SavedGame, bool, error) {
	var (
		saved   SavedGame
		version int
		payload []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT save_id, saved_at, version, payload FROM saves WHERE slot = $1`, slot,
	).Scan(&saved.ID, &saved.SavedAt, &version, &payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return SavedGame{}, false, nil
		}
		return SavedGame{}, false, fmt.Errorf("loading slot %q: %w", slot, err)
	}

	saved.Snapshot, err = decodeSnapshot(version, payload)
	if err != nil {
		return SavedGame{}, false, fmt.Errorf("loading slot %q: %w", slot, err)
	}
	return saved, true, nil
}

// Close closes the underlying pool.
func (s *PostgresSaveStore) Close() {
	s.pool.Close()
}
