package data

import (
	"math"
	"time"
)

// Leveling law.
const (
	// MaxSpecializationLevel is the level cap for every specialization.
	MaxSpecializationLevel = 20

	// BaseXPRequirement is the XP needed to go from level 1 to 2.
	BaseXPRequirement = 100

	// XPScalingFactor multiplies the requirement on every level.
	XPScalingFactor = 1.5

	// XPPerUnit is the specialization XP earned per unit produced (or traded).
	XPPerUnit = 0.1

	// LevelProductionBonus is the production multiplier added per specialization level above 1.
	LevelProductionBonus = 0.1
)

// Production upgrades.
const (
	BaseUpgradeCost         = 10
	UpgradeCostMultiplier   = 1.5
	UpgradeOutputMultiplier = 1.5
)

// Market.
const (
	// PriceFluctuation is the maximum relative excursion around the base price.
	PriceFluctuation = 0.3

	// PriceUpdateInterval is how often the tick reprices the market.
	PriceUpdateInterval = 30 * time.Second

	TradingBuyDiscount = 0.10
	TradingSellBonus   = 0.15
	// TradingLevelBonus is added to both discount and bonus per trading level above 1.
	TradingLevelBonus = 0.02
)

// StartingMoney is the money a fresh game starts with.
const StartingMoney = 50

// XPToNext returns the XP required to advance from level to level+1:
// floor(BaseXPRequirement * XPScalingFactor^(level-1)).
func XPToNext(level int) float64 {
	if level < 1 {
		level = 1
	}
	return math.Floor(BaseXPRequirement * math.Pow(XPScalingFactor, float64(level-1)))
}
