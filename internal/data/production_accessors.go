package data

import "github.com/udisondev/tycoon/internal/model"

// ProductionTemplate is the exported, immutable view of a production line.
type ProductionTemplate struct {
	ID             string               `json:"id"`
	Specialization model.Specialization `json:"specialization"`
	Description    string               `json:"description"`
	Output         model.Resource       `json:"output"`
	OutputAmount   float64              `json:"outputAmount"`
	BaseOutput     float64              `json:"baseOutput"`
	UpgradeCost    float64              `json:"upgradeCost"`
	MinLevel       int                  `json:"minLevel,omitempty"` // 0 = no level gate
	Requirements   []Requirement        `json:"requirements,omitempty"`
}

// Requirement is one input of a production line, per unit of output.
type Requirement struct {
	Resource model.Resource `json:"resource"`
	Amount   float64        `json:"amount"`
}

// HasLevelGate reports whether the line needs a minimum specialization level.
func (t *ProductionTemplate) HasLevelGate() bool {
	return t.MinLevel > 0
}

// GetProductionTemplate returns the line with the given id, or nil.
func GetProductionTemplate(id string) *ProductionTemplate {
	for i := range productionDefs {
		if productionDefs[i].id == id {
			return productionDefToTemplate(&productionDefs[i])
		}
	}
	return nil
}

// AllProductionTemplates returns every line in catalog order.
func AllProductionTemplates() []*ProductionTemplate {
	out := make([]*ProductionTemplate, 0, len(productionDefs))
	for i := range productionDefs {
		out = append(out, productionDefToTemplate(&productionDefs[i]))
	}
	return out
}

// ProductionIDs returns every line id in catalog order.
func ProductionIDs() []string {
	ids := make([]string, 0, len(productionDefs))
	for i := range productionDefs {
		ids = append(ids, productionDefs[i].id)
	}
	return ids
}

func productionDefToTemplate(def *productionDef) *ProductionTemplate {
	reqs := make([]Requirement, len(def.requirements))
	for i, r := range def.requirements {
		reqs[i] = Requirement{Resource: r.resource, Amount: r.amount}
	}
	return &ProductionTemplate{
		ID:             def.id,
		Specialization: def.specialization,
		Description:    def.description,
		Output:         def.output,
		OutputAmount:   def.outputAmount,
		BaseOutput:     def.baseOutput,
		UpgradeCost:    def.upgradeCost,
		MinLevel:       def.minLevel,
		Requirements:   reqs,
	}
}

// BasePrice returns the immutable base price of a tradable resource.
func BasePrice(r model.Resource) (float64, bool) {
	p, ok := basePrices[r]
	return p, ok
}

// BasePrices returns a copy of the base price table.
func BasePrices() map[model.Resource]float64 {
	out := make(map[model.Resource]float64, len(basePrices))
	for r, p := range basePrices {
		out[r] = p
	}
	return out
}
