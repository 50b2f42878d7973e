package engine

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Observer is notified after every non-idle tick.
type Observer func(rep TickReport, snap Snapshot)

// Runner drives Engine.Tick from a wall-clock ticker.
type Runner struct {
	engine   *Engine
	interval time.Duration
	now      func() time.Time

	mu        sync.RWMutex
	observers []Observer

	stopOnce sync.Once
	stopCh   chan struct{}
}

// NewRunner creates a runner ticking eng every interval (1s if interval <= 0).
func NewRunner(eng *Engine, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = time.Second
	}
	return &Runner{
		engine:   eng,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Observe registers fn to run after each tick, on the runner goroutine.
func (r *Runner) Observe(fn Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// Start runs the tick loop (blocks until context is canceled or Stop is called).
func (r *Runner) Start(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	slog.Info("tick runner started", "interval", r.interval)

	for {
		select {
		case <-ctx.Done():
			slog.Info("tick runner stopping")
			return ctx.Err()

		case <-r.stopCh:
			slog.Info("tick runner stopped")
			return nil

		case <-ticker.C:
			r.tickOnce()
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stopCh) })
}

func (r *Runner) tickOnce() {
	rep := r.engine.Tick(r.now())
	if rep.Idle() {
		return
	}

	r.mu.RLock()
	observers := r.observers
	r.mu.RUnlock()
	if len(observers) == 0 {
		return
	}

	snap := r.engine.Snapshot()
	for _, fn := range observers {
		fn(rep, snap)
	}
}
