package model

import (
	"fmt"
	"strings"
)

// EffectType is the kind of modifier a skill node grants.
type EffectType uint8

const (
	EffectProductionSpeed EffectType = iota + 1
	EffectResourceCost
	EffectResourceGain
	EffectChanceBonus
	EffectUnlockFeature
)

var effectTypeNames = []string{
	"production_speed",
	"resource_cost",
	"resource_gain",
	"chance_bonus",
	"unlock_feature",
}

// String returns the snake_case name used in data and on the wire.
func (t EffectType) String() string {
	if t >= EffectProductionSpeed && t <= EffectUnlockFeature {
		return effectTypeNames[t-1]
	}
	return fmt.Sprintf("effect(%d)", uint8(t))
}

// ParseEffectType resolves an effect type by name.
func ParseEffectType(name string) (EffectType, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range effectTypeNames {
		if n == key {
			return EffectType(i + 1), nil
		}
	}
	return 0, newUnknownNameError("effect type", name, effectTypeNames)
}

// MarshalText implements encoding.TextMarshaler.
func (t EffectType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *EffectType) UnmarshalText(text []byte) error {
	v, err := ParseEffectType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TargetAll is the wildcard effect target.
const TargetAll = "all"

// Effect is a percentage modifier granted by an allocated skill node.
// Target "" or "all" applies to every resource.
type Effect struct {
	Type        EffectType `json:"type"`
	Value       float64    `json:"value"`
	Target      string     `json:"target,omitempty"`
	Description string     `json:"description,omitempty"`
}

// Matches reports whether the effect contributes to an aggregation for (typ, target).
// An empty target argument matches every effect of the type.
func (e Effect) Matches(typ EffectType, target string) bool {
	if e.Type != typ {
		return false
	}
	if target == "" || e.Target == "" || e.Target == TargetAll {
		return true
	}
	return e.Target == target
}
