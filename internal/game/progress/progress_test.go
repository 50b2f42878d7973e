package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/tycoon/internal/data"
)

func TestNew(t *testing.T) {
	p := New()
	assert.Equal(t, 1, p.Level)
	assert.Equal(t, 0.0, p.XP)
	assert.Equal(t, 100.0, p.XPToNext)
	assert.False(t, p.MaxLevel())
}

func TestAddXP(t *testing.T) {
	tests := []struct {
		name       string
		xp         float64
		wantLevel  int
		wantXP     float64
		wantGained int
	}{
		{"below threshold", 99.5, 1, 99.5, 0},
		{"exact threshold", 100, 2, 0, 1},
		{"carry over", 130, 2, 30, 1},
		{"two levels", 250, 3, 0, 2},    // 100 + 150
		{"three levels", 500, 4, 25, 3}, // 100 + 150 + 225
		{"negative ignored", -10, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New()
			gained := p.AddXP(tt.xp)
			assert.Equal(t, tt.wantGained, gained)
			assert.Equal(t, tt.wantLevel, p.Level)
			assert.InDelta(t, tt.wantXP, p.XP, 1e-9)
			assert.Equal(t, data.XPToNext(p.Level), p.XPToNext)
		})
	}
}

func TestAddXP_CapsAtMaxLevel(t *testing.T) {
	p := New()
	gained := p.AddXP(1e12)

	assert.Equal(t, data.MaxSpecializationLevel-1, gained)
	assert.Equal(t, data.MaxSpecializationLevel, p.Level)
	assert.True(t, p.MaxLevel())
	assert.Equal(t, p.XPToNext, p.XP, "xp clamps to threshold at the cap")

	// Further XP changes nothing.
	before := p
	assert.Equal(t, 0, p.AddXP(5000))
	assert.Equal(t, before, p)
	assert.Equal(t, 1.0, p.Fraction())
}

func TestAddXP_LevelMonotonic(t *testing.T) {
	p := New()
	last := p.Level
	for i := 0; i < 500; i++ {
		p.AddXP(37.3)
		if p.Level < last {
			t.Fatalf("level decreased from %d to %d", last, p.Level)
		}
		if p.Level > data.MaxSpecializationLevel {
			t.Fatalf("level %d above cap", p.Level)
		}
		last = p.Level
	}
}

func TestFraction(t *testing.T) {
	p := New()
	p.AddXP(25)
	assert.InDelta(t, 0.25, p.Fraction(), 1e-9)
}
