package data

import "github.com/udisondev/tycoon/internal/model"

// skillTreeDef is the static definition of one specialization's skill tree.
type skillTreeDef struct {
	specialization model.Specialization
	paths          []skillPathDef
}

// skillPathDef is one path of a tree. Nodes are listed in display order.
type skillPathDef struct {
	id          string
	name        string
	description string
	nodes       []skillNodeDef
}

// skillNodeDef is one allocatable node.
// links names the nodes this one leads to; the loader stores every link on both ends.
type skillNodeDef struct {
	name        string
	nodeType    NodeType
	x, y        int
	level       int
	skillPoints int
	description string
	effects     []model.Effect
	links       []string
}

func eff(typ model.EffectType, value float64, target, desc string) model.Effect {
	return model.Effect{Type: typ, Value: value, Target: target, Description: desc}
}

var skillTreeDefs = []skillTreeDef{
	{
		specialization: model.Mining,
		paths: []skillPathDef{{
			id:          "mining",
			name:        "Mining Path",
			description: "Master the art of mining and resource processing",
			nodes: []skillNodeDef{
				// First row, left to right.
				{
					name: "Stone Mastery", nodeType: NodeNormal, x: 100, y: 100, level: 1, skillPoints: 1,
					description: "Improve stone production efficiency",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 10, "stone", "+10% stone production")},
					links:       []string{"Efficient Quarrying"},
				},
				{
					name: "Efficient Quarrying", nodeType: NodeNormal, x: 300, y: 100, level: 2, skillPoints: 1,
					description: "Reduce stone mining costs",
					effects:     []model.Effect{eff(model.EffectResourceCost, -10, "stone", "-10% resource cost")},
					links:       []string{"Resource Conservation"},
				},
				{
					name: "Resource Conservation", nodeType: NodeNotable, x: 500, y: 100, level: 3, skillPoints: 2,
					description: "Significantly reduce mining costs",
					effects:     []model.Effect{eff(model.EffectResourceCost, -15, model.TargetAll, "-15% resource cost for all mining")},
					links:       []string{"Basic Ore Mining"},
				},
				// Second row, right to left.
				{
					name: "Basic Ore Mining", nodeType: NodeNormal, x: 500, y: 200, level: 5, skillPoints: 2,
					description: "Begin ore mining operations",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 10, "ore", "+10% ore production")},
					links:       []string{"Advanced Mining"},
				},
				{
					name: "Advanced Mining", nodeType: NodeNormal, x: 300, y: 200, level: 6, skillPoints: 2,
					description: "Improve all mining operations",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 15, model.TargetAll, "+15% mining speed for all resources")},
					links:       []string{"Mining Expertise"},
				},
				{
					name: "Mining Expertise", nodeType: NodeNotable, x: 100, y: 200, level: 7, skillPoints: 3,
					description: "Chance to get bonus resources",
					effects:     []model.Effect{eff(model.EffectChanceBonus, 10, model.TargetAll, "10% chance for double resources")},
					links:       []string{"Basic Smelting"},
				},
				// Third row, left to right.
				{
					name: "Basic Smelting", nodeType: NodeNormal, x: 100, y: 300, level: 8, skillPoints: 2,
					description: "Begin metal smelting operations",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 10, "metal", "+10% metal production")},
					links:       []string{"Efficient Smelting"},
				},
				{
					name: "Efficient Smelting", nodeType: NodeNormal, x: 300, y: 300, level: 9, skillPoints: 2,
					description: "Reduce smelting costs",
					effects:     []model.Effect{eff(model.EffectResourceCost, -15, "ore", "-15% ore cost in smelting")},
					links:       []string{"Master Smelter"},
				},
				{
					name: "Master Smelter", nodeType: NodeKeystone, x: 500, y: 300, level: 10, skillPoints: 4,
					description: "Master the art of smelting",
					effects:     []model.Effect{eff(model.EffectChanceBonus, 20, "metal", "20% chance for double metal from smelting")},
				},
			},
		}},
	},
	{
		specialization: model.Farming,
		paths: []skillPathDef{{
			id:          "farming",
			name:        "Farming Path",
			description: "Grow more, waste less, cook better",
			nodes: []skillNodeDef{
				{
					name: "Green Thumb", nodeType: NodeNormal, x: 100, y: 100, level: 1, skillPoints: 1,
					description: "Improve crop yields",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 10, "food", "+10% food production")},
					links:       []string{"Crop Rotation"},
				},
				{
					name: "Crop Rotation", nodeType: NodeNormal, x: 300, y: 100, level: 2, skillPoints: 1,
					description: "Use less food when cooking",
					effects:     []model.Effect{eff(model.EffectResourceCost, -10, "food", "-10% food cost")},
					links:       []string{"Bountiful Harvest"},
				},
				{
					name: "Bountiful Harvest", nodeType: NodeNotable, x: 500, y: 100, level: 3, skillPoints: 2,
					description: "Chance for a double harvest",
					effects:     []model.Effect{eff(model.EffectChanceBonus, 10, "food", "10% chance for double food")},
					links:       []string{"Hearty Recipes"},
				},
				{
					name: "Hearty Recipes", nodeType: NodeNormal, x: 500, y: 200, level: 4, skillPoints: 2,
					description: "Cook meals faster",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 10, "meals", "+10% meal production")},
					links:       []string{"Kitchen Efficiency"},
				},
				{
					name: "Kitchen Efficiency", nodeType: NodeNormal, x: 300, y: 200, level: 5, skillPoints: 2,
					description: "Reduce all farming input costs",
					effects:     []model.Effect{eff(model.EffectResourceCost, -15, model.TargetAll, "-15% resource cost for all farming")},
					links:       []string{"Master Chef"},
				},
				{
					name: "Master Chef", nodeType: NodeNotable, x: 100, y: 200, level: 6, skillPoints: 3,
					description: "Chance to plate twice",
					effects:     []model.Effect{eff(model.EffectChanceBonus, 15, "meals", "15% chance for double meals")},
					links:       []string{"Irrigation"},
				},
				{
					name: "Irrigation", nodeType: NodeNormal, x: 100, y: 300, level: 8, skillPoints: 2,
					description: "Improve all farming operations",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 15, model.TargetAll, "+15% farming speed for all resources")},
					links:       []string{"Golden Fields"},
				},
				{
					name: "Golden Fields", nodeType: NodeKeystone, x: 300, y: 300, level: 10, skillPoints: 4,
					description: "The land gives back",
					effects:     []model.Effect{eff(model.EffectChanceBonus, 20, model.TargetAll, "20% chance for double resources")},
				},
			},
		}},
	},
	{
		specialization: model.Crafting,
		paths: []skillPathDef{{
			id:          "crafting",
			name:        "Crafting Path",
			description: "From raw timber to precision machines",
			nodes: []skillNodeDef{
				{
					name: "Sharp Axes", nodeType: NodeNormal, x: 100, y: 100, level: 1, skillPoints: 1,
					description: "Cut wood faster",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 10, "wood", "+10% wood production")},
					links:       []string{"Lumber Yard"},
				},
				{
					name: "Lumber Yard", nodeType: NodeNormal, x: 300, y: 100, level: 2, skillPoints: 1,
					description: "Use less wood per piece of furniture",
					effects:     []model.Effect{eff(model.EffectResourceCost, -10, "wood", "-10% wood cost")},
					links:       []string{"Fine Joinery"},
				},
				{
					name: "Fine Joinery", nodeType: NodeNotable, x: 500, y: 100, level: 3, skillPoints: 2,
					description: "Build furniture faster",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 15, "furniture", "+15% furniture production")},
					links:       []string{"Toolsmith"},
				},
				{
					name: "Toolsmith", nodeType: NodeNormal, x: 500, y: 200, level: 5, skillPoints: 2,
					description: "Forge tools faster",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 10, "tools", "+10% tool production")},
					links:       []string{"Reinforced Handles"},
				},
				{
					name: "Reinforced Handles", nodeType: NodeNormal, x: 300, y: 200, level: 6, skillPoints: 2,
					description: "Chance to finish a spare tool",
					effects:     []model.Effect{eff(model.EffectChanceBonus, 10, "tools", "10% chance for double tools")},
					links:       []string{"Workshop Mastery"},
				},
				{
					name: "Workshop Mastery", nodeType: NodeNotable, x: 100, y: 200, level: 7, skillPoints: 3,
					description: "Improve all crafting operations",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 15, model.TargetAll, "+15% crafting speed for all resources")},
					links:       []string{"Precision Parts"},
				},
				{
					name: "Precision Parts", nodeType: NodeNormal, x: 100, y: 300, level: 8, skillPoints: 2,
					description: "Waste less metal in assembly",
					effects:     []model.Effect{eff(model.EffectResourceCost, -15, "metal", "-15% metal cost")},
					links:       []string{"Assembly Line"},
				},
				{
					name: "Assembly Line", nodeType: NodeNormal, x: 300, y: 300, level: 9, skillPoints: 2,
					description: "Assemble machines faster",
					effects:     []model.Effect{eff(model.EffectProductionSpeed, 20, "machines", "+20% machine production")},
					links:       []string{"Master Artisan"},
				},
				{
					name: "Master Artisan", nodeType: NodeKeystone, x: 500, y: 300, level: 10, skillPoints: 4,
					description: "Every machine could be two",
					effects:     []model.Effect{eff(model.EffectChanceBonus, 20, "machines", "20% chance for double machines")},
				},
			},
		}},
	},
	{
		specialization: model.Trading,
		paths: []skillPathDef{{
			id:          "trading",
			name:        "Trading Path",
			description: "Read the market before it moves",
			nodes: []skillNodeDef{
				{
					name: "Market Insight", nodeType: NodeNormal, x: 100, y: 100, level: 1, skillPoints: 1,
					description: "Buy before prices climb",
					effects:     []model.Effect{eff(model.EffectResourceCost, -5, model.TargetAll, "-5% buy prices")},
					links:       []string{"Bulk Orders"},
				},
				{
					name: "Bulk Orders", nodeType: NodeNormal, x: 300, y: 100, level: 2, skillPoints: 1,
					description: "Machines fetch more in larger lots",
					effects:     []model.Effect{eff(model.EffectResourceGain, 10, "machines", "+10% machines sell price")},
					links:       []string{"Trade Network"},
				},
				{
					name: "Trade Network", nodeType: NodeNotable, x: 500, y: 100, level: 4, skillPoints: 2,
					description: "Better returns on everything sold",
					effects:     []model.Effect{eff(model.EffectResourceGain, 5, model.TargetAll, "+5% sell prices")},
					links:       []string{"Price Watch"},
				},
				{
					name: "Price Watch", nodeType: NodeNormal, x: 500, y: 200, level: 6, skillPoints: 2,
					description: "Never overpay on a price swing",
					effects:     []model.Effect{eff(model.EffectResourceCost, -10, model.TargetAll, "-10% buy prices")},
					links:       []string{"Merchant Guild"},
				},
				{
					name: "Merchant Guild", nodeType: NodeNotable, x: 300, y: 200, level: 8, skillPoints: 3,
					description: "Guild contracts pay a premium",
					effects:     []model.Effect{eff(model.EffectResourceGain, 10, model.TargetAll, "+10% sell prices")},
					links:       []string{"Trade Baron"},
				},
				{
					name: "Trade Baron", nodeType: NodeKeystone, x: 100, y: 200, level: 10, skillPoints: 4,
					description: "The market bends to you",
					effects:     []model.Effect{eff(model.EffectResourceGain, 15, model.TargetAll, "+15% sell prices")},
				},
			},
		}},
	},
}
