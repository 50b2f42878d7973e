package engine

import (
	"time"

	"github.com/udisondev/tycoon/internal/game/market"
	"github.com/udisondev/tycoon/internal/game/production"
	"github.com/udisondev/tycoon/internal/game/progress"
	"github.com/udisondev/tycoon/internal/game/skilltree"
	"github.com/udisondev/tycoon/internal/model"
)

// state is everything one player owns. Guarded by Engine.mu.
type state struct {
	active    model.Specialization
	resources model.Ledger
	market    *market.Market

	lines     []*production.Line
	linesByID map[string]*production.Line

	progress [model.SpecializationCount]progress.Progress
	trees    [model.SpecializationCount]*skilltree.Tree

	lastTick time.Time

	// pendingTradeXP accrues from trades while trading is active and is
	// applied by the next tick that runs with trading active.
	pendingTradeXP float64
}

func newState(now time.Time, startingMoney float64) state {
	s := state{
		market:   market.New(now),
		lines:    production.NewCatalog(),
		lastTick: now,
	}
	s.resources.Set(model.Money, startingMoney)

	s.linesByID = make(map[string]*production.Line, len(s.lines))
	for _, l := range s.lines {
		s.linesByID[l.ID()] = l
	}

	for _, spec := range model.AllSpecializations() {
		s.progress[spec.Index()] = progress.New()
		s.trees[spec.Index()] = skilltree.NewTree(spec)
	}
	return s
}

// level returns the current level of spec, or 0 for NoSpecialization.
func (s *state) level(spec model.Specialization) int {
	if !spec.Valid() {
		return 0
	}
	return s.progress[spec.Index()].Level
}

// activeTree returns the active specialization's tree, or nil.
func (s *state) activeTree() *skilltree.Tree {
	if !s.active.Valid() {
		return nil
	}
	return s.trees[s.active.Index()]
}

// nodeEffect sums matching effects of the active tree's allocated nodes.
func (s *state) nodeEffect(typ model.EffectType, target string) float64 {
	tree := s.activeTree()
	if tree == nil {
		return 0
	}
	return tree.Effect(typ, target)
}

// tradeTerms collects the trader modifiers for r: the trading level and,
// while trading is active, the resource_cost and resource_gain effects.
func (s *state) tradeTerms(r model.Resource) market.Terms {
	t := market.Terms{Active: s.active, TradingLevel: s.level(model.Trading)}
	if s.active == model.Trading {
		t.CostPct = s.nodeEffect(model.EffectResourceCost, r.String())
		t.GainPct = s.nodeEffect(model.EffectResourceGain, r.String())
	}
	return t
}
