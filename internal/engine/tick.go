package engine

import (
	"log/slog"
	"math"
	"time"

	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/model"
)

// LineReport describes one line's contribution to a tick.
type LineReport struct {
	LineID   string         `json:"lineID"`
	Output   model.Resource `json:"output"`
	Gain     float64        `json:"gain"`
	Produced float64        `json:"produced"`
	Doubled  bool           `json:"doubled"`
}

// TickReport summarizes one tick.
type TickReport struct {
	At            time.Time            `json:"at"`
	Active        model.Specialization `json:"active"`
	DeltaSeconds  float64              `json:"deltaSeconds"`
	PricesUpdated bool                 `json:"pricesUpdated"`
	Lines         []LineReport         `json:"lines,omitempty"`
	// Reserved lists lines that passed eligibility but were dropped because
	// their consumption would overdraw the ledger.
	Reserved     []string `json:"reserved,omitempty"`
	XPGained     float64  `json:"xpGained"`
	TradeXP      float64  `json:"tradeXP"`
	LevelsGained int      `json:"levelsGained"`
}

// Idle reports whether the tick was skipped for lack of an active specialization.
func (r TickReport) Idle() bool { return r.Active == model.NoSpecialization }

// Tick advances the simulation to now.
//
// With no active specialization nothing changes, lastTick included.
// Otherwise: reprice if due, run every eligible line of the active
// specialization, apply XP and level-ups, then set lastTick = now.
func (e *Engine) Tick(now time.Time) TickReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := &e.s
	rep := TickReport{At: now, Active: s.active}
	if s.active == model.NoSpecialization {
		return rep
	}

	// A clock that steps backwards produces nothing rather than negative output.
	rep.DeltaSeconds = math.Max(0, now.Sub(s.lastTick).Seconds())

	if s.market.Due(now, e.cfg.PriceUpdateInterval) {
		s.market.Reprice(e.rng, now)
		rep.PricesUpdated = true
	}

	active := s.active
	level := s.level(active)
	levelMultiplier := 1 + float64(level-1)*data.LevelProductionBonus
	// Eligibility is judged on the ledger as it stood when the tick began.
	start := s.resources

	xp := 0.0
	for _, l := range s.lines {
		if l.Specialization() != active {
			continue
		}
		if !l.CanProduce(active, level, &start) {
			continue
		}

		out := l.Output()
		bonusPct := s.nodeEffect(model.EffectProductionSpeed, out.String())
		gain := math.Floor(rep.DeltaSeconds * l.BaseOutput() * float64(l.Level()) * (levelMultiplier + bonusPct/100))
		if gain < 0 {
			gain = 0
		}

		var need model.Ledger
		for _, req := range l.Template().Requirements {
			costPct := s.nodeEffect(model.EffectResourceCost, req.Resource.String())
			need.Add(req.Resource, math.Max(0, req.Amount*(1+costPct/100)*gain))
		}
		if !covers(&s.resources, &need) {
			rep.Reserved = append(rep.Reserved, l.ID())
			slog.Debug("production skipped, inputs reserved", "lineID", l.ID(), "gain", gain)
			continue
		}
		for r := model.Resource(0); r < model.ResourceCount; r++ {
			s.resources.Add(r, -need.Get(r))
		}

		produced := gain
		doubled := false
		if chancePct := s.nodeEffect(model.EffectChanceBonus, out.String()); chancePct > 0 {
			if e.rng.Float64() < chancePct/100 {
				produced = 2 * gain
				doubled = true
			}
		}
		s.resources.Add(out, produced)
		xp += gain * data.XPPerUnit

		rep.Lines = append(rep.Lines, LineReport{
			LineID:   l.ID(),
			Output:   out,
			Gain:     gain,
			Produced: produced,
			Doubled:  doubled,
		})
	}

	rep.XPGained = xp
	// Trade XP waits until trading is the active specialization again.
	if active == model.Trading {
		rep.TradeXP = s.pendingTradeXP
		xp += s.pendingTradeXP
		s.pendingTradeXP = 0
	}
	rep.LevelsGained = e.applyXP(active, xp)

	s.lastTick = now

	slog.Debug("tick",
		"specialization", active,
		"delta", rep.DeltaSeconds,
		"lines", len(rep.Lines),
		"reserved", len(rep.Reserved),
		"xp", rep.XPGained,
		"pricesUpdated", rep.PricesUpdated)
	return rep
}

// covers reports whether have holds at least need of every resource.
func covers(have, need *model.Ledger) bool {
	for r := model.Resource(0); r < model.ResourceCount; r++ {
		if n := need.Get(r); n > 0 && !have.Has(r, n) {
			return false
		}
	}
	return true
}

// applyXP adds xp to spec's progress and awards one skill point per level gained.
func (e *Engine) applyXP(spec model.Specialization, xp float64) int {
	p := &e.s.progress[spec.Index()]
	gained := p.AddXP(xp)
	if gained == 0 {
		return 0
	}

	tree := e.s.trees[spec.Index()]
	tree.AwardPoints(gained)
	slog.Info("specialization level up",
		"specialization", spec,
		"level", p.Level,
		"skillPoints", tree.AvailablePoints())
	return gained
}
