// Package production holds the mutable state of production lines.
package production

import (
	"math"

	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/model"
)

// Line is a production line: an immutable template plus upgrade state.
type Line struct {
	tpl *data.ProductionTemplate

	level       int
	baseOutput  float64
	upgradeCost float64
}

// NewLine creates a level-1 line from a catalog template.
func NewLine(tpl *data.ProductionTemplate) *Line {
	return &Line{
		tpl:         tpl,
		level:       1,
		baseOutput:  tpl.BaseOutput,
		upgradeCost: tpl.UpgradeCost,
	}
}

// NewCatalog creates one fresh line per catalog entry, in catalog order.
func NewCatalog() []*Line {
	tpls := data.AllProductionTemplates()
	lines := make([]*Line, 0, len(tpls))
	for _, tpl := range tpls {
		lines = append(lines, NewLine(tpl))
	}
	return lines
}

func (l *Line) ID() string                           { return l.tpl.ID }
func (l *Line) Template() *data.ProductionTemplate   { return l.tpl }
func (l *Line) Specialization() model.Specialization { return l.tpl.Specialization }
func (l *Line) Output() model.Resource               { return l.tpl.Output }
func (l *Line) Level() int                           { return l.level }
func (l *Line) BaseOutput() float64                  { return l.baseOutput }
func (l *Line) UpgradeCost() float64                 { return l.upgradeCost }

// CanAffordUpgrade reports whether money covers the next upgrade.
func (l *Line) CanAffordUpgrade(money float64) bool {
	return money >= l.upgradeCost
}

// Upgrade raises the line one level and returns the money spent.
// Returns 0 and leaves the line unchanged if money does not cover the cost.
func (l *Line) Upgrade(money float64) float64 {
	if !l.CanAffordUpgrade(money) {
		return 0
	}
	cost := l.upgradeCost
	l.level++
	l.baseOutput *= data.UpgradeOutputMultiplier
	l.upgradeCost = math.Floor(l.upgradeCost * data.UpgradeCostMultiplier)
	return cost
}

// PassesLevelGate reports whether the specialization gate is open.
// Lines without a minimum level are always open; gated lines require their
// owner to be active at a level of at least MinLevel.
func (l *Line) PassesLevelGate(active model.Specialization, level int) bool {
	if !l.tpl.HasLevelGate() {
		return true
	}
	return active == l.tpl.Specialization && level >= l.tpl.MinLevel
}

// HasInputs reports whether the ledger holds one unit's worth of every requirement.
// This is a point-in-time check; it does not reserve anything.
func (l *Line) HasInputs(ledger *model.Ledger) bool {
	for _, req := range l.tpl.Requirements {
		if !ledger.Has(req.Resource, req.Amount) {
			return false
		}
	}
	return true
}

// CanProduce combines the level gate and the input check.
func (l *Line) CanProduce(active model.Specialization, level int, ledger *model.Ledger) bool {
	return l.PassesLevelGate(active, level) && l.HasInputs(ledger)
}

// State is the persisted, mutable part of a line.
type State struct {
	ID          string  `json:"id"`
	Level       int     `json:"level"`
	BaseOutput  float64 `json:"baseOutput"`
	UpgradeCost float64 `json:"upgradeCost"`
}

// State returns a copy of the mutable fields.
func (l *Line) State() State {
	return State{ID: l.tpl.ID, Level: l.level, BaseOutput: l.baseOutput, UpgradeCost: l.upgradeCost}
}

// Restore overwrites the mutable fields. The caller matches st.ID to the line.
func (l *Line) Restore(st State) {
	l.level = st.Level
	l.baseOutput = st.BaseOutput
	l.upgradeCost = st.UpgradeCost
}
