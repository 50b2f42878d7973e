package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Resource identifies one of the fixed set of ledger quantities.
type Resource uint8

const (
	Money Resource = iota
	Wood
	Stone
	Food
	Ore
	Tools
	// Derived tier.
	Furniture
	Bricks
	Meals
	Metal
	Machines

	// ResourceCount is the number of known resources.
	ResourceCount
)

var resourceNames = [ResourceCount]string{
	Money:     "money",
	Wood:      "wood",
	Stone:     "stone",
	Food:      "food",
	Ore:       "ore",
	Tools:     "tools",
	Furniture: "furniture",
	Bricks:    "bricks",
	Meals:     "meals",
	Metal:     "metal",
	Machines:  "machines",
}

// String returns the lowercase resource name.
func (r Resource) String() string {
	if r >= ResourceCount {
		return fmt.Sprintf("resource(%d)", uint8(r))
	}
	return resourceNames[r]
}

// Valid reports whether r is a known resource.
func (r Resource) Valid() bool {
	return r < ResourceCount
}

// Tradable reports whether r can be bought and sold on the market.
// Everything except money is tradable.
func (r Resource) Tradable() bool {
	return r.Valid() && r != Money
}

// ParseResource resolves a resource by name (case-insensitive).
// Unknown names return an *UnknownNameError with the closest known name.
func ParseResource(name string) (Resource, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range resourceNames {
		if n == key {
			return Resource(i), nil
		}
	}
	return 0, newUnknownNameError("resource", name, resourceNames[:])
}

// MarshalText implements encoding.TextMarshaler so resources can be map keys in JSON.
func (r Resource) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("marshaling invalid resource %d", uint8(r))
	}
	return []byte(r.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *Resource) UnmarshalText(text []byte) error {
	v, err := ParseResource(string(text))
	if err != nil {
		return err
	}
	*r = v
	return nil
}

// AllResources returns every resource in declaration order.
func AllResources() []Resource {
	out := make([]Resource, 0, ResourceCount)
	for r := Resource(0); r < ResourceCount; r++ {
		out = append(out, r)
	}
	return out
}

// TradableResources returns every tradable resource in declaration order.
func TradableResources() []Resource {
	out := make([]Resource, 0, ResourceCount-1)
	for r := Resource(0); r < ResourceCount; r++ {
		if r.Tradable() {
			out = append(out, r)
		}
	}
	return out
}

// Ledger maps every resource to its quantity.
// The zero value is an empty ledger. Ledger is a value type: assignment copies it.
type Ledger [ResourceCount]float64

// Get returns the quantity of r.
func (l Ledger) Get(r Resource) float64 {
	return l[r]
}

// Set overwrites the quantity of r.
func (l *Ledger) Set(r Resource, v float64) {
	l[r] = v
}

// Add adds delta (possibly negative) to r.
func (l *Ledger) Add(r Resource, delta float64) {
	l[r] += delta
}

// Has reports whether the ledger holds at least amount of r.
func (l Ledger) Has(r Resource, amount float64) bool {
	return l[r] >= amount
}

// MarshalJSON encodes the ledger as {"money": 50, "wood": 0, ...}.
func (l Ledger) MarshalJSON() ([]byte, error) {
	m := make(map[Resource]float64, ResourceCount)
	for r := Resource(0); r < ResourceCount; r++ {
		m[r] = l[r]
	}
	return json.Marshal(m)
}

// UnmarshalJSON decodes the map form produced by MarshalJSON.
// Missing resources are left at zero.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var m map[Resource]float64
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decoding ledger: %w", err)
	}
	*l = Ledger{}
	for r, v := range m {
		l[r] = v
	}
	return nil
}
