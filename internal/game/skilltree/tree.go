// Package skilltree implements skill point allocation and effect aggregation
// for one specialization's tree.
package skilltree

import (
	"fmt"
	"sort"

	"github.com/udisondev/tycoon/internal/data"
	"github.com/udisondev/tycoon/internal/model"
)

// Reason explains why a node can or cannot be allocated.
type Reason uint8

const (
	ReasonOK Reason = iota
	ReasonWrongTree
	ReasonAlreadyAllocated
	ReasonNoPoints
	ReasonLevelTooLow
	ReasonNotConnected
)

func (r Reason) String() string {
	switch r {
	case ReasonOK:
		return "ok"
	case ReasonWrongTree:
		return "node belongs to another tree"
	case ReasonAlreadyAllocated:
		return "already allocated"
	case ReasonNoPoints:
		return "no skill points available"
	case ReasonLevelTooLow:
		return "specialization level too low"
	case ReasonNotConnected:
		return "not connected to an allocated node"
	default:
		return fmt.Sprintf("reason(%d)", uint8(r))
	}
}

// Tree is the allocation state of one specialization's skill tree.
type Tree struct {
	tpl             *data.SkillTreeTemplate
	availablePoints int
	allocated       map[string]struct{}
}

// NewTree returns an empty tree for spec. Panics on NoSpecialization.
func NewTree(spec model.Specialization) *Tree {
	tpl := data.SkillTree(spec)
	if tpl == nil {
		panic(fmt.Sprintf("skilltree: no tree for %v", spec))
	}
	return &Tree{
		tpl:       tpl,
		allocated: make(map[string]struct{}),
	}
}

// Specialization returns the owning specialization.
func (t *Tree) Specialization() model.Specialization { return t.tpl.Specialization }

// Template returns the static tree layout.
func (t *Tree) Template() *data.SkillTreeTemplate { return t.tpl }

// AvailablePoints returns unspent skill points.
func (t *Tree) AvailablePoints() int { return t.availablePoints }

// AwardPoints adds n unspent points (one per level-up).
func (t *Tree) AwardPoints(n int) {
	if n > 0 {
		t.availablePoints += n
	}
}

// IsAllocated reports whether the node id is allocated.
func (t *Tree) IsAllocated(id string) bool {
	_, ok := t.allocated[id]
	return ok
}

// AllocatedCount returns the number of allocated nodes.
func (t *Tree) AllocatedCount() int { return len(t.allocated) }

// AllocatedIDs returns allocated node ids, sorted.
func (t *Tree) AllocatedIDs() []string {
	ids := make([]string, 0, len(t.allocated))
	for id := range t.allocated {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Check evaluates every allocation rule for node at the given specialization level.
//
// Rules, in order: the node belongs to this tree; it is not allocated; a point is
// available; the level requirement is met; and it is either a root-row node of an
// empty tree or connected to an allocated node.
func (t *Tree) Check(node *data.SkillNodeTemplate, level int) Reason {
	if node.Specialization != t.tpl.Specialization {
		return ReasonWrongTree
	}
	if t.IsAllocated(node.ID) {
		return ReasonAlreadyAllocated
	}
	if t.availablePoints < 1 {
		return ReasonNoPoints
	}
	if level < node.LevelRequirement {
		return ReasonLevelTooLow
	}
	if len(t.allocated) == 0 && node.IsRoot() {
		return ReasonOK
	}
	for _, conn := range node.Connections {
		if t.IsAllocated(conn) {
			return ReasonOK
		}
	}
	return ReasonNotConnected
}

// CanAllocate reports whether Check passes.
func (t *Tree) CanAllocate(node *data.SkillNodeTemplate, level int) bool {
	return t.Check(node, level) == ReasonOK
}

// Allocate spends exactly one point on node if every rule passes.
// The node's SkillPoints field is not consulted.
func (t *Tree) Allocate(node *data.SkillNodeTemplate, level int) Reason {
	reason := t.Check(node, level)
	if reason != ReasonOK {
		return reason
	}
	t.allocated[node.ID] = struct{}{}
	t.availablePoints--
	return ReasonOK
}

// Effect sums the values of every effect of typ on allocated nodes that
// matches target (see model.Effect.Matches). Rescans the tree on every call.
func (t *Tree) Effect(typ model.EffectType, target string) float64 {
	total := 0.0
	for _, path := range t.tpl.Paths {
		for _, node := range path.Nodes {
			if !t.IsAllocated(node.ID) {
				continue
			}
			for _, e := range node.Effects {
				if e.Matches(typ, target) {
					total += e.Value
				}
			}
		}
	}
	return total
}

// State is the persisted part of a tree.
type State struct {
	Specialization  model.Specialization `json:"specialization"`
	AvailablePoints int                  `json:"availablePoints"`
	AllocatedNodes  []string             `json:"allocatedNodes"`
}

// State returns a copy of the mutable fields.
func (t *Tree) State() State {
	return State{
		Specialization:  t.tpl.Specialization,
		AvailablePoints: t.availablePoints,
		AllocatedNodes:  t.AllocatedIDs(),
	}
}

// Restore overwrites the tree's points and allocations.
// Unknown or foreign node ids are rejected and leave the tree unchanged.
func (t *Tree) Restore(st State) error {
	if st.AvailablePoints < 0 {
		return fmt.Errorf("restoring %s tree: negative points %d", t.tpl.Specialization, st.AvailablePoints)
	}
	allocated := make(map[string]struct{}, len(st.AllocatedNodes))
	for _, id := range st.AllocatedNodes {
		node := data.GetSkillNode(id)
		if node == nil || node.Specialization != t.tpl.Specialization {
			return fmt.Errorf("restoring %s tree: unknown node %q", t.tpl.Specialization, id)
		}
		allocated[id] = struct{}{}
	}
	t.availablePoints = st.AvailablePoints
	t.allocated = allocated
	return nil
}
