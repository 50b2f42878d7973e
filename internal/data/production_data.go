package data

import "github.com/udisondev/tycoon/internal/model"

// productionDef is a static production line definition.
type productionDef struct {
	id             string
	specialization model.Specialization
	description    string
	output         model.Resource
	outputAmount   float64
	baseOutput     float64
	upgradeCost    float64
	minLevel       int // 0 = no gate
	requirements   []requirementDef
}

type requirementDef struct {
	resource model.Resource
	amount   float64
}

// productionDefs lists every production line in catalog order.
// The tick processes lines in this order.
var productionDefs = []productionDef{
	// Mining
	{
		id: "stone_mining", specialization: model.Mining,
		description: "Extract stone from the quarry",
		output:      model.Stone, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost,
	},
	{
		id: "ore_mining", specialization: model.Mining,
		description: "Mine precious ore from deep underground",
		output:      model.Ore, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost * 2, minLevel: 5,
	},
	{
		id: "brick_making", specialization: model.Mining,
		description: "Turn stone into sturdy bricks",
		output:      model.Bricks, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost * 2, minLevel: 3,
		requirements: []requirementDef{{model.Stone, 2}},
	},
	{
		id: "smelting", specialization: model.Mining,
		description: "Smelt ore into refined metal",
		output:      model.Metal, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost * 3, minLevel: 7,
		requirements: []requirementDef{{model.Ore, 2}},
	},

	// Farming
	{
		id: "food_farming", specialization: model.Farming,
		description: "Grow basic food crops",
		output:      model.Food, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost,
	},
	{
		id: "meal_cooking", specialization: model.Farming,
		description: "Cook food into proper meals",
		output:      model.Meals, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost * 2, minLevel: 3,
		requirements: []requirementDef{{model.Food, 2}},
	},

	// Crafting
	{
		id: "woodcutting", specialization: model.Crafting,
		description: "Cut wood from trees",
		output:      model.Wood, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost,
	},
	{
		id: "tool_crafting", specialization: model.Crafting,
		description: "Craft basic tools",
		output:      model.Tools, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost * 2, minLevel: 5,
	},
	{
		id: "furniture_making", specialization: model.Crafting,
		description: "Turn wood into furniture",
		output:      model.Furniture, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost * 2, minLevel: 3,
		requirements: []requirementDef{{model.Wood, 2}},
	},
	{
		id: "machine_assembly", specialization: model.Crafting,
		description: "Assemble machines from tools and metal",
		output:      model.Machines, outputAmount: 1, baseOutput: 1,
		upgradeCost: BaseUpgradeCost * 4, minLevel: 7,
		requirements: []requirementDef{{model.Tools, 1}, {model.Metal, 2}},
	},
}

// basePrices are the immutable market anchors for every tradable resource.
var basePrices = map[model.Resource]float64{
	model.Wood:      2,
	model.Stone:     3,
	model.Food:      4,
	model.Ore:       5,
	model.Tools:     10,
	model.Furniture: 15,
	model.Bricks:    20,
	model.Meals:     25,
	model.Metal:     30,
	model.Machines:  50,
}
