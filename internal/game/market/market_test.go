package market

import (
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/model"
)

type fixedSource float64

func (f fixedSource) Float64() float64 { return float64(f) }

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func TestNew_BasePrices(t *testing.T) {
	m := New(epoch)
	for _, r := range model.TradableResources() {
		want, _ := data.BasePrice(r)
		got, ok := m.Price(r)
		require.True(t, ok, r.String())
		assert.Equal(t, want, got, r.String())
	}
	_, ok := m.Price(model.Money)
	assert.False(t, ok)
	assert.Equal(t, epoch, m.LastUpdate())
}

func TestMarket_Due(t *testing.T) {
	m := New(epoch)
	assert.False(t, m.Due(epoch.Add(30*time.Second), data.PriceUpdateInterval), "strictly greater than interval")
	assert.True(t, m.Due(epoch.Add(30*time.Second+time.Millisecond), data.PriceUpdateInterval))
}

func TestMarket_Reprice_Extremes(t *testing.T) {
	tests := []struct {
		name  string
		src   fixedSource
		wood  float64
		metal float64
	}{
		{"midpoint keeps base", 0.5, 2, 30},
		{"low end -30%", 0, 1, 21},          // round(1.4)=1, round(21)=21
		{"high end +30%", 0.9999999, 3, 39}, // round(2.6)=3, round(39)=39
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(epoch)
			later := epoch.Add(time.Minute)
			m.Reprice(tt.src, later)

			wood, _ := m.Price(model.Wood)
			metal, _ := m.Price(model.Metal)
			assert.Equal(t, tt.wood, wood)
			assert.Equal(t, tt.metal, metal)
			assert.Equal(t, later, m.LastUpdate())
		})
	}
}

func TestMarket_Reprice_Bounds(t *testing.T) {
	m := New(epoch)
	src := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 200; i++ {
		m.Reprice(src, epoch)
		for _, r := range model.TradableResources() {
			base, _ := data.BasePrice(r)
			p, _ := m.Price(r)
			assert.GreaterOrEqual(t, p, base*(1-data.PriceFluctuation)-0.5, r.String())
			assert.LessOrEqual(t, p, base*(1+data.PriceFluctuation)+0.5, r.String())
			assert.Equal(t, p, float64(int64(p)), "prices are whole numbers")
		}
	}
}

func TestTradingModifiers(t *testing.T) {
	assert.Equal(t, 0.0, BuyDiscount(model.Mining, 10))
	assert.Equal(t, 0.0, SellBonus(model.NoSpecialization, 1))

	assert.InDelta(t, 0.10, BuyDiscount(model.Trading, 1), 1e-12)
	assert.InDelta(t, 0.15, SellBonus(model.Trading, 1), 1e-12)
	assert.InDelta(t, 0.18, BuyDiscount(model.Trading, 5), 1e-12)
	assert.InDelta(t, 0.23, SellBonus(model.Trading, 5), 1e-12)
}

func TestMarket_EffectivePrices(t *testing.T) {
	m := New(epoch)

	buy, ok := m.BuyPrice(model.Wood, Terms{TradingLevel: 1})
	require.True(t, ok)
	assert.Equal(t, 2.0, buy)

	sell, ok := m.SellPrice(model.Wood, Terms{Active: model.Mining, TradingLevel: 1})
	require.True(t, ok)
	assert.Equal(t, 2.0, sell)

	trader := Terms{Active: model.Trading, TradingLevel: 1}
	buy, _ = m.BuyPrice(model.Machines, trader)
	sell, _ = m.SellPrice(model.Machines, trader)
	assert.InDelta(t, 45.0, buy, 1e-9)
	assert.InDelta(t, 57.5, sell, 1e-9)

	_, ok = m.BuyPrice(model.Money, trader)
	assert.False(t, ok)
}

func TestMarket_SkillTerms(t *testing.T) {
	m := New(epoch)

	tests := []struct {
		name  string
		terms Terms
		buy   float64
		sell  float64
	}{
		{"trading with skills", Terms{Active: model.Trading, TradingLevel: 1, CostPct: -10, GainPct: 20}, 40.5, 69},
		{"cost floor", Terms{Active: model.Trading, TradingLevel: 1, CostPct: -150}, 0, 57.5},
		{"ignored outside trading", Terms{Active: model.Mining, TradingLevel: 1, CostPct: -10, GainPct: 20}, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buy, _ := m.BuyPrice(model.Machines, tt.terms)
			sell, _ := m.SellPrice(model.Machines, tt.terms)
			assert.InDelta(t, tt.buy, buy, 1e-9)
			assert.InDelta(t, tt.sell, sell, 1e-9)
		})
	}
}

func TestMarket_StateRestore(t *testing.T) {
	m := New(epoch)
	m.Reprice(fixedSource(0.1), epoch.Add(time.Hour))
	st := m.State()

	fresh := New(epoch)
	require.NoError(t, fresh.Restore(st))
	assert.Equal(t, st, fresh.State())

	bad := m.State()
	delete(bad.Prices, model.Ore)
	assert.Error(t, fresh.Restore(bad))

	bad = m.State()
	bad.Prices[model.Money] = 1
	assert.Error(t, fresh.Restore(bad))

	for _, p := range []float64{math.NaN(), math.Inf(1), -3} {
		bad = m.State()
		bad.Prices[model.Wood] = p
		assert.Error(t, fresh.Restore(bad), "price %v", p)
	}
	assert.Equal(t, st, fresh.State())
}
