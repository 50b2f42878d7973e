// Package market implements resource prices and trading modifiers.
package market

import (
	"fmt"
	"math"
	"time"

	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/model"
)

// Source yields uniform random numbers in [0, 1).
type Source interface {
	Float64() float64
}

// Market holds the current price of every tradable resource.
type Market struct {
	prices     map[model.Resource]float64
	lastUpdate time.Time
}

// New returns a market at base prices, last repriced at now.
func New(now time.Time) *Market {
	return &Market{
		prices:     data.BasePrices(),
		lastUpdate: now,
	}
}

// Price returns the current (unmodified) price of r.
func (m *Market) Price(r model.Resource) (float64, bool) {
	p, ok := m.prices[r]
	return p, ok
}

// Prices returns a copy of the price table.
func (m *Market) Prices() map[model.Resource]float64 {
	out := make(map[model.Resource]float64, len(m.prices))
	for r, p := range m.prices {
		out[r] = p
	}
	return out
}

// LastUpdate returns when prices were last recomputed.
func (m *Market) LastUpdate() time.Time { return m.lastUpdate }

// Due reports whether more than interval has passed since the last repricing.
func (m *Market) Due(now time.Time, interval time.Duration) bool {
	return now.Sub(m.lastUpdate) > interval
}

// Reprice draws a fresh price for every tradable resource:
// round(base * (1 + (r*2-1) * PriceFluctuation)), independent per resource,
// with no memory of the previous price.
func (m *Market) Reprice(src Source, now time.Time) {
	// Iterate in declaration order so a seeded source gives reproducible prices.
	for _, r := range model.TradableResources() {
		base, ok := data.BasePrice(r)
		if !ok {
			continue
		}
		fluctuation := 1 + (src.Float64()*2-1)*data.PriceFluctuation
		m.prices[r] = math.Round(base * fluctuation)
	}
	m.lastUpdate = now
}

// BuyDiscount is the fraction taken off buy prices.
// Zero unless trading is the active specialization.
func BuyDiscount(active model.Specialization, tradingLevel int) float64 {
	if active != model.Trading {
		return 0
	}
	return data.TradingBuyDiscount + float64(tradingLevel-1)*data.TradingLevelBonus
}

// SellBonus is the fraction added to sell prices.
// Zero unless trading is the active specialization.
func SellBonus(active model.Specialization, tradingLevel int) float64 {
	if active != model.Trading {
		return 0
	}
	return data.TradingSellBonus + float64(tradingLevel-1)*data.TradingLevelBonus
}

// Terms are the trader-side modifiers applied on top of the market price.
type Terms struct {
	Active       model.Specialization
	TradingLevel int
	// CostPct and GainPct are skill effect percentages (resource_cost on buys,
	// resource_gain on sells). Only honored while trading is active.
	CostPct float64
	GainPct float64
}

// BuyPrice returns the effective per-unit buy price of r.
func (m *Market) BuyPrice(r model.Resource, t Terms) (float64, bool) {
	p, ok := m.prices[r]
	if !ok {
		return 0, false
	}
	price := p * (1 - BuyDiscount(t.Active, t.TradingLevel))
	if t.Active == model.Trading {
		price *= math.Max(0, 1+t.CostPct/100)
	}
	return price, true
}

// SellPrice returns the effective per-unit sell price of r.
func (m *Market) SellPrice(r model.Resource, t Terms) (float64, bool) {
	p, ok := m.prices[r]
	if !ok {
		return 0, false
	}
	price := p * (1 + SellBonus(t.Active, t.TradingLevel))
	if t.Active == model.Trading {
		price *= math.Max(0, 1+t.GainPct/100)
	}
	return price, true
}

// State is the persisted part of the market.
type State struct {
	Prices     map[model.Resource]float64 `json:"prices"`
	LastUpdate time.Time                  `json:"lastUpdate"`
}

// State returns a copy of prices and the last update time.
func (m *Market) State() State {
	return State{Prices: m.Prices(), LastUpdate: m.lastUpdate}
}

// Restore replaces prices and the last update time.
// Every tradable resource must be priced; nothing else may be.
func (m *Market) Restore(st State) error {
	prices := make(map[model.Resource]float64, len(st.Prices))
	for r, p := range st.Prices {
		if !r.Tradable() {
			return fmt.Errorf("restoring market: %s is not tradable", r)
		}
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return fmt.Errorf("restoring market: %s price %v", r, p)
		}
		prices[r] = p
	}
	for _, r := range model.TradableResources() {
		if _, ok := prices[r]; !ok {
			return fmt.Errorf("restoring market: missing price for %s", r)
		}
	}
	m.prices = prices
	m.lastUpdate = st.LastUpdate
	return nil
}
