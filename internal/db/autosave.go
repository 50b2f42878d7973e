package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/tycoon/internal/engine"
)

// Snapshotter is the engine surface the autosaver needs.
type Snapshotter interface {
	Snapshot() engine.Snapshot
}

// finalSaveTimeout bounds the save performed on shutdown.
const finalSaveTimeout = 5 * time.Second

// Autosaver periodically writes engine snapshots to a store.
type Autosaver struct {
	store    SaveStore
	source   Snapshotter
	slot     string
	interval time.Duration
}

// NewAutosaver creates an autosaver writing source to slot every interval.
func NewAutosaver(store SaveStore, source Snapshotter, slot string, interval time.Duration) *Autosaver {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Autosaver{
		store:    store,
		source:   source,
		slot:     slot,
		interval: interval,
	}
}

// SaveNow writes one snapshot.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	if err := a.store.Save(ctx, a.slot, a.source.Snapshot()); err != nil {
		return fmt.Errorf("autosave: %w", err)
	}
	return nil
}

// Run saves every interval (blocks until context is canceled).
// A last save is written on the way out, so nothing since the previous
// interval is lost on shutdown.
func (a *Autosaver) Run(ctx context.Context) error {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()

	slog.Info("autosaver started", "slot", a.slot, "interval", a.interval)

	for {
		select {
		case <-ctx.Done():
			finalCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finalSaveTimeout)
			defer cancel()
			if err := a.SaveNow(finalCtx); err != nil {
				return err
			}
			slog.Info("autosaver stopped, final snapshot saved", "slot", a.slot)
			return ctx.Err()

		case <-ticker.C:
			// A failed periodic save is retried on the next tick.
			if err := a.SaveNow(ctx); err != nil {
				slog.Error("periodic save failed", "slot", a.slot, "error", err)
			}
		}
	}
}
