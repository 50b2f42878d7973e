package model

import (
	"fmt"
	"strings"
)

// Specialization is the industry a player works in.
// The zero value NoSpecialization means nothing is active.
type Specialization uint8

const (
	NoSpecialization Specialization = iota
	Mining
	Farming
	Crafting
	Trading
)

// SpecializationCount is the number of real specializations (excluding NoSpecialization).
const SpecializationCount = 4

var specializationNames = []string{"mining", "farming", "crafting", "trading"}

// String returns the lowercase name; NoSpecialization prints as "none".
func (s Specialization) String() string {
	switch s {
	case NoSpecialization:
		return "none"
	case Mining:
		return "mining"
	case Farming:
		return "farming"
	case Crafting:
		return "crafting"
	case Trading:
		return "trading"
	default:
		return fmt.Sprintf("specialization(%d)", uint8(s))
	}
}

// Valid reports whether s is one of the four real specializations.
func (s Specialization) Valid() bool {
	switch s {
	case Mining, Farming, Crafting, Trading:
		return true
	default:
		return false
	}
}

// Index returns a dense 0-based index for per-specialization arrays.
// Panics on NoSpecialization or an out-of-range value.
func (s Specialization) Index() int {
	if !s.Valid() {
		panic(fmt.Sprintf("model: Index on %v", s))
	}
	return int(s) - 1
}

// AllSpecializations returns the four specializations in declaration order.
func AllSpecializations() []Specialization {
	return []Specialization{Mining, Farming, Crafting, Trading}
}

// ParseSpecialization resolves a specialization by name (case-insensitive).
// "" and "none" resolve to NoSpecialization.
func ParseSpecialization(name string) (Specialization, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return NoSpecialization, nil
	case "mining":
		return Mining, nil
	case "farming":
		return Farming, nil
	case "crafting":
		return Crafting, nil
	case "trading":
		return Trading, nil
	}
	return NoSpecialization, newUnknownNameError("specialization", name, specializationNames)
}

// MarshalText implements encoding.TextMarshaler.
func (s Specialization) MarshalText() ([]byte, error) {
	if s != NoSpecialization && !s.Valid() {
		return nil, fmt.Errorf("marshaling invalid specialization %d", uint8(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Specialization) UnmarshalText(text []byte) error {
	v, err := ParseSpecialization(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}
