// Package progress implements specialization leveling.
package progress

import "github.com/udisondev/tycoon/internal/data"

// Progress is one specialization's level and experience.
//
// Invariant: XPToNext == data.XPToNext(Level); 0 <= XP < XPToNext below the cap,
// XP == XPToNext at data.MaxSpecializationLevel.
type Progress struct {
	Level    int     `json:"level"`
	XP       float64 `json:"xp"`
	XPToNext float64 `json:"xpToNext"`
}

// New returns level-1 progress with no experience.
func New() Progress {
	return Progress{Level: 1, XPToNext: data.XPToNext(1)}
}

// MaxLevel reports whether the level cap is reached.
func (p *Progress) MaxLevel() bool {
	return p.Level >= data.MaxSpecializationLevel
}

// AddXP adds experience and applies every level-up it pays for.
// Returns the number of levels gained; each one is worth one skill point.
// Experience beyond the level cap is discarded.
func (p *Progress) AddXP(xp float64) int {
	if xp > 0 {
		p.XP += xp
	}

	gained := 0
	for p.XP >= p.XPToNext && p.Level < data.MaxSpecializationLevel {
		p.XP -= p.XPToNext
		p.Level++
		p.XPToNext = data.XPToNext(p.Level)
		gained++
	}

	if p.MaxLevel() {
		p.XP = p.XPToNext
	}
	return gained
}

// Fraction returns progress towards the next level in [0, 1].
func (p *Progress) Fraction() float64 {
	if p.XPToNext <= 0 {
		return 0
	}
	f := p.XP / p.XPToNext
	if f > 1 {
		return 1
	}
	return f
}
