package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/tycoon/internal/api"
	"github.com/udisondev/tycoon/internal/config"
	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/db"
	"github.com/udisondev/tycoon/internal/engine"
)

const ConfigPath = "config/tycoon.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("TYCOON_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadServer(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	slog.Info("tycoon server starting",
		"logLevel", cfg.LogLevel,
		"addr", cfg.HTTP.Addr(),
		"storage", cfg.Database.Driver)

	if err := data.LoadSkillTrees(); err != nil {
		return fmt.Errorf("loading skill trees: %w", err)
	}

	eng := engine.New(engine.Config{
		PriceUpdateInterval: cfg.Engine.PriceUpdateInterval,
		StartingMoney:       cfg.Engine.StartingMoney,
	}, time.Now())

	store, err := openStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()

		saved, ok, err := store.Load(ctx, cfg.Database.SaveSlot)
		if err != nil {
			return fmt.Errorf("loading save %q: %w", cfg.Database.SaveSlot, err)
		}
		if ok {
			if err := eng.Restore(saved.Snapshot); err != nil {
				return fmt.Errorf("restoring save %q: %w", cfg.Database.SaveSlot, err)
			}
			slog.Info("save restored",
				"slot", cfg.Database.SaveSlot,
				"saveID", saved.ID,
				"savedAt", saved.SavedAt,
				"active", saved.Snapshot.Active,
				"lastTick", saved.Snapshot.LastTick)
		} else {
			slog.Info("no save found, starting fresh", "slot", cfg.Database.SaveSlot)
		}
	}

	hub := api.NewHub()
	runner := engine.NewRunner(eng, cfg.Engine.TickInterval)
	runner.Observe(hub.Broadcast)
	server := api.NewServer(cfg.HTTP, eng, hub)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := runner.Start(gctx); err != nil {
			return fmt.Errorf("tick runner: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := hub.Run(gctx); err != nil {
			return fmt.Errorf("websocket hub: %w", err)
		}
		return nil
	})

	if store != nil {
		autosaver := db.NewAutosaver(store, eng, cfg.Database.SaveSlot, cfg.Database.AutosaveInterval)
		g.Go(func() error {
			if err := autosaver.Run(gctx); err != nil {
				return fmt.Errorf("autosave: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		if err := server.Run(gctx); err != nil {
			return fmt.Errorf("http api: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("tycoon server stopped")
	return nil
}

// openStore opens the configured save store, or returns nil when storage is disabled.
func openStore(ctx context.Context, cfg config.DatabaseConfig) (db.SaveStore, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		store, err := db.OpenPostgres(ctx, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("opening postgres store: %w", err)
		}
		slog.Info("postgres save store ready", "host", cfg.Host, "dbname", cfg.DBName)
		return store, nil

	case config.DriverSQLite:
		store, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite store: %w", err)
		}
		slog.Info("sqlite save store ready", "path", cfg.SQLitePath)
		return store, nil

	default:
		return nil, nil
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
