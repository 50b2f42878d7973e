package db

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/udisondev/tycoon/internal/engine"
)

// SavedGame is a loaded slot: the snapshot plus the metadata of the save that wrote it.
// ID is new on every save, so it identifies one write of the slot.
type SavedGame struct {
	ID       uuid.UUID
	SavedAt  time.Time
	Snapshot engine.Snapshot
}

// SaveStore persists engine snapshots under named slots.
// Saving to an existing slot replaces it.
type SaveStore interface {
	Save(ctx context.Context, slot string, snap engine.Snapshot) error
	// Load returns false if the slot has never been saved.
	Load(ctx context.Context, slot string) (SavedGame, bool, error)
	Close()
}
