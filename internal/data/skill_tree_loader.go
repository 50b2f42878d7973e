package data

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/udisondev/tycoon/internal/model"
)

// NodeType is a cosmetic tier marker. It does not change allocation cost.
type NodeType string

const (
	NodeNormal   NodeType = "normal"
	NodeNotable  NodeType = "notable"
	NodeKeystone NodeType = "keystone"
)

// RootRowY is the vertical layout coordinate of path-root nodes.
// A tree with nothing allocated can only start from a node on this row.
const RootRowY = 100

// Position is a node's layout position. Presentation only, except for RootRowY.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SkillNodeTemplate is the exported, immutable view of a skill node.
type SkillNodeTemplate struct {
	ID               string               `json:"id"`
	Name             string               `json:"name"`
	Type             NodeType             `json:"type"`
	Path             string               `json:"path"`
	Specialization   model.Specialization `json:"specialization"`
	Description      string               `json:"description"`
	Position         Position             `json:"position"`
	Connections      []string             `json:"connections"`
	LevelRequirement int                  `json:"levelRequirement"`
	// SkillPoints is informational; allocation always costs exactly one point.
	SkillPoints int            `json:"skillPoints"`
	Effects     []model.Effect `json:"effects"`
}

// IsRoot reports whether the node sits on the root row.
func (n *SkillNodeTemplate) IsRoot() bool {
	return n.Position.Y == RootRowY
}

// SkillPathTemplate is one path of a tree.
type SkillPathTemplate struct {
	ID          string
	Name        string
	Description string
	Nodes       []*SkillNodeTemplate
}

// SkillTreeTemplate is one specialization's full tree.
type SkillTreeTemplate struct {
	Specialization model.Specialization
	Paths          []*SkillPathTemplate
}

// Nodes returns every node of the tree in path and display order.
func (t *SkillTreeTemplate) Nodes() []*SkillNodeTemplate {
	var out []*SkillNodeTemplate
	for _, p := range t.Paths {
		out = append(out, p.Nodes...)
	}
	return out
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// NodeID derives the stable node id: "<specialization>-<path>-<name>",
// with the name lowercased and whitespace runs replaced by '-'.
func NodeID(spec model.Specialization, path, name string) string {
	return fmt.Sprintf("%s-%s-%s", spec, path, whitespaceRun.ReplaceAllString(strings.ToLower(name), "-"))
}

var (
	skillTreesOnce sync.Once
	skillTreesErr  error
	skillTrees     [model.SpecializationCount]*SkillTreeTemplate
	skillNodeIndex map[string]*SkillNodeTemplate
)

// LoadSkillTrees builds and validates the skill tree tables.
// Safe to call repeatedly; the tables are built once.
func LoadSkillTrees() error {
	skillTreesOnce.Do(func() {
		skillTreesErr = buildSkillTrees()
	})
	return skillTreesErr
}

func mustSkillTrees() {
	if err := LoadSkillTrees(); err != nil {
		panic(fmt.Sprintf("data: skill trees: %v", err))
	}
}

// SkillTree returns the template for spec, or nil for NoSpecialization.
func SkillTree(spec model.Specialization) *SkillTreeTemplate {
	if !spec.Valid() {
		return nil
	}
	mustSkillTrees()
	return skillTrees[spec.Index()]
}

// GetSkillNode returns the node with the given id, or nil.
func GetSkillNode(id string) *SkillNodeTemplate {
	mustSkillTrees()
	return skillNodeIndex[id]
}

func buildSkillTrees() error {
	index := make(map[string]*SkillNodeTemplate, 64)
	var trees [model.SpecializationCount]*SkillTreeTemplate

	for _, td := range skillTreeDefs {
		if !td.specialization.Valid() {
			return fmt.Errorf("tree with invalid specialization %v", td.specialization)
		}
		if trees[td.specialization.Index()] != nil {
			return fmt.Errorf("duplicate tree for %s", td.specialization)
		}

		tree := &SkillTreeTemplate{Specialization: td.specialization}
		for _, pd := range td.paths {
			path := &SkillPathTemplate{ID: pd.id, Name: pd.name, Description: pd.description}
			byName := make(map[string]*SkillNodeTemplate, len(pd.nodes))

			for _, nd := range pd.nodes {
				node := &SkillNodeTemplate{
					ID:               NodeID(td.specialization, pd.id, nd.name),
					Name:             nd.name,
					Type:             nd.nodeType,
					Path:             pd.id,
					Specialization:   td.specialization,
					Description:      nd.description,
					Position:         Position{X: nd.x, Y: nd.y},
					LevelRequirement: nd.level,
					SkillPoints:      nd.skillPoints,
					Effects:          append([]model.Effect(nil), nd.effects...),
				}
				if _, dup := index[node.ID]; dup {
					return fmt.Errorf("duplicate skill node id %q", node.ID)
				}
				index[node.ID] = node
				byName[nd.name] = node
				path.Nodes = append(path.Nodes, node)
			}

			// Links are declared once; store them on both endpoints.
			for _, nd := range pd.nodes {
				from := byName[nd.name]
				for _, link := range nd.links {
					to, ok := byName[link]
					if !ok {
						return fmt.Errorf("node %q links to unknown node %q", from.ID, link)
					}
					from.Connections = appendUnique(from.Connections, to.ID)
					to.Connections = appendUnique(to.Connections, from.ID)
				}
			}

			tree.Paths = append(tree.Paths, path)
		}
		trees[td.specialization.Index()] = tree
	}

	for _, spec := range model.AllSpecializations() {
		if trees[spec.Index()] == nil {
			return fmt.Errorf("missing tree for %s", spec)
		}
	}

	skillTrees = trees
	skillNodeIndex = index
	return nil
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
