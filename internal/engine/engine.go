// Package engine runs the idle simulation: production ticks, upgrades,
// trading and skill allocation over one player's state.
package engine

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/game/production"
	"github.com/udisondev/tycoon/internal/game/skilltree"
	"github.com/udisondev/tycoon/internal/model"
)

// Config holds engine tunables.
type Config struct {
	PriceUpdateInterval time.Duration
	StartingMoney       float64
}

// DefaultConfig returns the stock tunables.
func DefaultConfig() Config {
	return Config{
		PriceUpdateInterval: data.PriceUpdateInterval,
		StartingMoney:       data.StartingMoney,
	}
}

// Option customizes an Engine.
type Option func(*Engine)

// WithRand sets the random source (useful for deterministic tests).
func WithRand(r Rand) Option {
	return func(e *Engine) {
		e.rng = r
	}
}

// Engine owns one player's state. Every method takes the engine lock, so
// ticks and commands never interleave.
type Engine struct {
	cfg Config
	rng Rand

	mu sync.Mutex
	s  state
}

// New creates an engine in the initial state, started at now.
func New(cfg Config, now time.Time, opts ...Option) *Engine {
	if cfg.PriceUpdateInterval <= 0 {
		cfg.PriceUpdateInterval = data.PriceUpdateInterval
	}

	e := &Engine{
		cfg: cfg,
		rng: DefaultRand(),
		s:   newState(now, cfg.StartingMoney),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// ActiveSpecialization returns the active specialization.
func (e *Engine) ActiveSpecialization() model.Specialization {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.active
}

// SetActiveSpecialization switches the active specialization.
// NoSpecialization pauses the simulation. Progress is never reset.
func (e *Engine) SetActiveSpecialization(spec model.Specialization) error {
	if spec != model.NoSpecialization && !spec.Valid() {
		return fmt.Errorf("specialization %d: %w", uint8(spec), ErrNotFound)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.s.active == spec {
		return nil
	}
	slog.Info("specialization switched", "from", e.s.active, "to", spec)
	e.s.active = spec
	return nil
}

func (e *Engine) line(id string) (*production.Line, error) {
	l, ok := e.s.linesByID[id]
	if !ok {
		return nil, fmt.Errorf("production line %q: %w", id, ErrNotFound)
	}
	return l, nil
}

// UpgradeProduction buys the next level of a line.
// Insufficient money is a silent no-op.
func (e *Engine) UpgradeProduction(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := e.line(id)
	if err != nil {
		return err
	}

	spent := l.Upgrade(e.s.resources.Get(model.Money))
	if spent == 0 {
		return nil
	}
	e.s.resources.Add(model.Money, -spent)

	slog.Debug("production upgraded",
		"lineID", id,
		"level", l.Level(),
		"spent", spent,
		"nextCost", l.UpgradeCost())
	return nil
}

// CanAffordUpgrade reports whether money covers the line's upgrade cost.
func (e *Engine) CanAffordUpgrade(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := e.line(id)
	if err != nil {
		return false, err
	}
	return l.CanAffordUpgrade(e.s.resources.Get(model.Money)), nil
}

// CanProduce reports whether the line's level gate and inputs pass right now.
// It does not predict post-consumption feasibility.
func (e *Engine) CanProduce(id string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := e.line(id)
	if err != nil {
		return false, err
	}
	return l.CanProduce(e.s.active, e.s.level(e.s.active), &e.s.resources), nil
}

// ProductionStatus is a line's template, mutable state and predicates at one instant.
type ProductionStatus struct {
	Template         *data.ProductionTemplate `json:"template"`
	State            production.State         `json:"state"`
	CanProduce       bool                     `json:"canProduce"`
	CanAffordUpgrade bool                     `json:"canAffordUpgrade"`
}

// Production returns a consistent view of one line.
func (e *Engine) Production(id string) (ProductionStatus, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	l, err := e.line(id)
	if err != nil {
		return ProductionStatus{}, err
	}
	return ProductionStatus{
		Template:         data.GetProductionTemplate(id),
		State:            l.State(),
		CanProduce:       l.CanProduce(e.s.active, e.s.level(e.s.active), &e.s.resources),
		CanAffordUpgrade: l.CanAffordUpgrade(e.s.resources.Get(model.Money)),
	}, nil
}

func tradable(r model.Resource) error {
	if !r.Tradable() {
		return fmt.Errorf("resource %q: %w", r, ErrNotFound)
	}
	return nil
}

func validAmount(amount float64) bool {
	return amount > 0 && !math.IsInf(amount, 0)
}

// BuyResource buys amount units of r at the effective buy price.
// Insufficient money or a non-positive amount is a silent no-op.
func (e *Engine) BuyResource(r model.Resource, amount float64) error {
	if err := tradable(r); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !validAmount(amount) {
		return nil
	}
	price, _ := e.s.market.BuyPrice(r, e.s.tradeTerms(r))
	cost := price * amount
	if e.s.resources.Get(model.Money) < cost {
		return nil
	}

	e.s.resources.Add(model.Money, -cost)
	e.s.resources.Add(r, amount)
	e.accrueTradeXP(amount)

	slog.Debug("resource bought", "resource", r, "amount", amount, "cost", cost)
	return nil
}

// SellResource sells amount units of r at the effective sell price.
// Insufficient holdings or a non-positive amount is a silent no-op.
func (e *Engine) SellResource(r model.Resource, amount float64) error {
	if err := tradable(r); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if !validAmount(amount) {
		return nil
	}
	if e.s.resources.Get(r) < amount {
		return nil
	}
	price, _ := e.s.market.SellPrice(r, e.s.tradeTerms(r))
	revenue := price * amount

	e.s.resources.Add(r, -amount)
	e.s.resources.Add(model.Money, revenue)
	e.accrueTradeXP(amount)

	slog.Debug("resource sold", "resource", r, "amount", amount, "revenue", revenue)
	return nil
}

func (e *Engine) accrueTradeXP(amount float64) {
	if e.s.active == model.Trading {
		e.s.pendingTradeXP += amount * data.XPPerUnit
	}
}

// Quote returns the effective buy and sell prices of r.
func (e *Engine) Quote(r model.Resource) (buy, sell float64, err error) {
	if err := tradable(r); err != nil {
		return 0, 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	terms := e.s.tradeTerms(r)
	buy, _ = e.s.market.BuyPrice(r, terms)
	sell, _ = e.s.market.SellPrice(r, terms)
	return buy, sell, nil
}

func skillNode(id string) (*data.SkillNodeTemplate, error) {
	node := data.GetSkillNode(id)
	if node == nil {
		return nil, fmt.Errorf("skill node %q: %w", id, ErrNotFound)
	}
	return node, nil
}

// CanAllocateNode reports whether every allocation rule passes for the node,
// evaluated against its own tree and specialization level.
func (e *Engine) CanAllocateNode(id string) (bool, error) {
	node, err := skillNode(id)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tree := e.s.trees[node.Specialization.Index()]
	return tree.CanAllocate(node, e.s.level(node.Specialization)), nil
}

// AllocateSkillPoint spends one point on the node. A failed rule is a silent no-op.
func (e *Engine) AllocateSkillPoint(id string) error {
	node, err := skillNode(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tree := e.s.trees[node.Specialization.Index()]
	reason := tree.Allocate(node, e.s.level(node.Specialization))
	if reason != skilltree.ReasonOK {
		slog.Debug("skill allocation rejected", "nodeID", id, "reason", reason)
		return nil
	}

	slog.Info("skill allocated",
		"nodeID", id,
		"specialization", node.Specialization,
		"pointsLeft", tree.AvailablePoints())
	return nil
}

// SkillNodeStatus is a node's template and allocation state at one instant.
type SkillNodeStatus struct {
	Node        *data.SkillNodeTemplate `json:"node"`
	Allocated   bool                    `json:"allocated"`
	CanAllocate bool                    `json:"canAllocate"`
	Reason      string                  `json:"reason"`
}

// SkillNode returns a consistent view of one node.
func (e *Engine) SkillNode(id string) (SkillNodeStatus, error) {
	node, err := skillNode(id)
	if err != nil {
		return SkillNodeStatus{}, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	tree := e.s.trees[node.Specialization.Index()]
	reason := tree.Check(node, e.s.level(node.Specialization))
	return SkillNodeStatus{
		Node:        node,
		Allocated:   tree.IsAllocated(id),
		CanAllocate: reason == skilltree.ReasonOK,
		Reason:      reason.String(),
	}, nil
}

// GetNodeEffect sums effects of typ matching target over the active tree's
// allocated nodes. An empty target matches every effect of typ.
// Returns 0 with no active specialization.
func (e *Engine) GetNodeEffect(typ model.EffectType, target string) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.s.nodeEffect(typ, target)
}
