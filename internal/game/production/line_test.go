package production

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/model"
)

func newLine(t *testing.T, id string) *Line {
	t.Helper()
	tpl := data.GetProductionTemplate(id)
	require.NotNil(t, tpl, "template %s", id)
	return NewLine(tpl)
}

func TestNewCatalog(t *testing.T) {
	lines := NewCatalog()
	require.Len(t, lines, len(data.ProductionIDs()))
	for i, id := range data.ProductionIDs() {
		assert.Equal(t, id, lines[i].ID())
		assert.Equal(t, 1, lines[i].Level())
	}
}

func TestLine_Upgrade(t *testing.T) {
	l := newLine(t, "stone_mining")

	spent := l.Upgrade(50)

	assert.Equal(t, 10.0, spent)
	assert.Equal(t, 2, l.Level())
	assert.Equal(t, 1.5, l.BaseOutput())
	assert.Equal(t, 15.0, l.UpgradeCost())

	// 15 * 1.5 = 22.5 -> floor 22
	spent = l.Upgrade(100)
	assert.Equal(t, 15.0, spent)
	assert.Equal(t, 22.0, l.UpgradeCost())
	assert.Equal(t, 2.25, l.BaseOutput())
}

func TestLine_Upgrade_InsufficientFunds(t *testing.T) {
	l := newLine(t, "smelting")
	before := l.State()

	assert.False(t, l.CanAffordUpgrade(29.99))
	assert.Equal(t, 0.0, l.Upgrade(29.99))
	assert.Equal(t, before, l.State())

	assert.True(t, l.CanAffordUpgrade(30))
}

func TestLine_PassesLevelGate(t *testing.T) {
	ungated := newLine(t, "stone_mining")
	gated := newLine(t, "brick_making") // mining, min level 3

	tests := []struct {
		name   string
		line   *Line
		active model.Specialization
		level  int
		want   bool
	}{
		{"ungated inactive", ungated, model.NoSpecialization, 1, true},
		{"ungated other spec", ungated, model.Farming, 1, true},
		{"gated below level", gated, model.Mining, 2, false},
		{"gated at level", gated, model.Mining, 3, true},
		{"gated wrong spec", gated, model.Farming, 10, false},
		{"gated inactive", gated, model.NoSpecialization, 10, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.line.PassesLevelGate(tt.active, tt.level))
		})
	}
}

func TestLine_HasInputs(t *testing.T) {
	l := newLine(t, "machine_assembly") // 1 tools + 2 metal

	var ledger model.Ledger
	assert.False(t, l.HasInputs(&ledger))

	ledger.Set(model.Tools, 1)
	ledger.Set(model.Metal, 1.9)
	assert.False(t, l.HasInputs(&ledger))

	ledger.Set(model.Metal, 2)
	assert.True(t, l.HasInputs(&ledger))

	assert.True(t, l.CanProduce(model.Crafting, 7, &ledger))
	assert.False(t, l.CanProduce(model.Crafting, 6, &ledger))
}

func TestLine_StateRestore(t *testing.T) {
	l := newLine(t, "woodcutting")
	l.Upgrade(1000)
	l.Upgrade(1000)
	st := l.State()

	fresh := newLine(t, "woodcutting")
	fresh.Restore(st)
	assert.Equal(t, st, fresh.State())
	assert.Equal(t, 3, fresh.Level())
}
