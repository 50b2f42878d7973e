package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/game/market"
	"github.com/udisondev/tycoon/internal/game/production"
	"github.com/udisondev/tycoon/internal/game/progress"
	"github.com/udisondev/tycoon/internal/game/skilltree"
	"github.com/udisondev/tycoon/internal/model"
)

// Snapshot is a deep, JSON-serializable copy of the engine state.
type Snapshot struct {
	Active         model.Specialization                       `json:"activeSpecialization"`
	Resources      model.Ledger                               `json:"resources"`
	Market         market.State                               `json:"market"`
	Progress       map[model.Specialization]progress.Progress `json:"progress"`
	SkillTrees     []skilltree.State                          `json:"skillTrees"`
	Productions    []production.State                         `json:"productions"`
	LastTick       time.Time                                  `json:"lastTick"`
	PendingTradeXP float64                                    `json:"pendingTradeXP"`
}

// Snapshot copies the full state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &e.s
	snap := Snapshot{
		Active:         s.active,
		Resources:      s.resources,
		Market:         s.market.State(),
		Progress:       make(map[model.Specialization]progress.Progress, model.SpecializationCount),
		SkillTrees:     make([]skilltree.State, 0, model.SpecializationCount),
		Productions:    make([]production.State, 0, len(s.lines)),
		LastTick:       s.lastTick,
		PendingTradeXP: s.pendingTradeXP,
	}
	for _, spec := range model.AllSpecializations() {
		snap.Progress[spec] = s.progress[spec.Index()]
		snap.SkillTrees = append(snap.SkillTrees, s.trees[spec.Index()].State())
	}
	for _, l := range s.lines {
		snap.Productions = append(snap.Productions, l.State())
	}
	return snap
}

// Restore replaces the state with snap. The snapshot is validated first;
// on error the engine is left untouched.
//
// Lines and trees absent from the snapshot start fresh, so saves from an
// older catalog still load.
func (e *Engine) Restore(snap Snapshot) error {
	if snap.Active != model.NoSpecialization && !snap.Active.Valid() {
		return fmt.Errorf("restoring snapshot: specialization %d: %w", uint8(snap.Active), ErrNotFound)
	}
	for r := model.Resource(0); r < model.ResourceCount; r++ {
		if v := snap.Resources.Get(r); !validQuantity(v) {
			return fmt.Errorf("restoring snapshot: %s quantity %v", r, v)
		}
	}
	if !validQuantity(snap.PendingTradeXP) {
		return fmt.Errorf("restoring snapshot: pending trade xp %v", snap.PendingTradeXP)
	}

	next := newState(snap.LastTick, 0)
	next.active = snap.Active
	next.resources = snap.Resources
	next.pendingTradeXP = snap.PendingTradeXP

	if err := next.market.Restore(snap.Market); err != nil {
		return fmt.Errorf("restoring snapshot: %w", err)
	}

	for spec, p := range snap.Progress {
		if !spec.Valid() {
			return fmt.Errorf("restoring snapshot: progress for %s: %w", spec, ErrNotFound)
		}
		if p.Level < 1 || p.Level > data.MaxSpecializationLevel {
			return fmt.Errorf("restoring snapshot: %s level %d out of range", spec, p.Level)
		}
		if !validQuantity(p.XP) {
			return fmt.Errorf("restoring snapshot: %s xp %v", spec, p.XP)
		}
		restored := progress.Progress{Level: p.Level, XP: p.XP, XPToNext: data.XPToNext(p.Level)}
		if restored.MaxLevel() {
			restored.XP = restored.XPToNext
		} else if restored.XP >= restored.XPToNext {
			return fmt.Errorf("restoring snapshot: %s xp %v past level threshold %v", spec, p.XP, restored.XPToNext)
		}
		next.progress[spec.Index()] = restored
	}

	for _, ts := range snap.SkillTrees {
		if !ts.Specialization.Valid() {
			return fmt.Errorf("restoring snapshot: skill tree %s: %w", ts.Specialization, ErrNotFound)
		}
		if err := next.trees[ts.Specialization.Index()].Restore(ts); err != nil {
			return fmt.Errorf("restoring snapshot: %w", err)
		}
	}

	for _, ls := range snap.Productions {
		l, ok := next.linesByID[ls.ID]
		if !ok {
			return fmt.Errorf("restoring snapshot: production line %q: %w", ls.ID, ErrNotFound)
		}
		if ls.Level < 1 || !validQuantity(ls.BaseOutput) || !validQuantity(ls.UpgradeCost) {
			return fmt.Errorf("restoring snapshot: production line %q: invalid state", ls.ID)
		}
		l.Restore(ls)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.s = next

	return nil
}

// validQuantity reports whether v is finite and not negative.
func validQuantity(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
