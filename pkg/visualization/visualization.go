package visualization

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// NodeView is one host in an exported visualization
type NodeView struct {
	ID       int     `json:"id"`
	Key      string  `json:"key"`
	Label    string  `json:"label"`
	Core     int     `json:"core"`
	Degree   int     `json:"degree"`
	Priority bool    `json:"priority"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
}

// EdgeView is one distinct host pair; Count is the number of flows between them
type EdgeView struct {
	Source int `json:"source"`
	Target int `json:"target"`
	Count  int `json:"count"`
}

// Visualization represents a graph visualization with layout
type Visualization struct {
	Nodes []NodeView `json:"nodes"`
	Edges []EdgeView `json:"edges"`
}

// Build lays out the given vertices and collects the edges between them.
// Self-loops are not drawn.
func Build(g *graph.Graph, coreness []int, vertices []int, layout Layout) (*Visualization, error) {
	if len(coreness) != g.NumVertices() {
		return nil, fmt.Errorf("coreness has %d entries for %d vertices", len(coreness), g.NumVertices())
	}

	positions, err := layout.ComputeLayout(g, vertices)
	if err != nil {
		return nil, fmt.Errorf("layout failed: %w", err)
	}

	v := &Visualization{
		Nodes: make([]NodeView, 0, len(vertices)),
		Edges: make([]EdgeView, 0),
	}

	selected := make(map[int]bool, len(vertices))
	for _, id := range vertices {
		selected[id] = true
		pos := positions[id]
		v.Nodes = append(v.Nodes, NodeView{
			ID:       id,
			Key:      g.Key(id),
			Label:    g.Label(id),
			Core:     coreness[id],
			Degree:   g.Degree(id),
			Priority: g.IsPriority(id),
			X:        pos.X,
			Y:        pos.Y,
		})
	}

	v.Edges = PairCounts(g, func(id int) bool { return selected[id] })
	return v, nil
}

// PairCounts returns the distinct pairs (u < v) whose endpoints both pass
// keep, with the number of flows between them, ordered by (source, target).
func PairCounts(g *graph.Graph, keep func(int) bool) []EdgeView {
	edges := make([]EdgeView, 0)
	for u := 0; u < g.NumVertices(); u++ {
		if !keep(u) {
			continue
		}
		counts := make(map[int]int)
		g.ForEachNeighbor(u, func(w int) {
			if w > u && keep(w) {
				counts[w]++
			}
		})
		targets := make([]int, 0, len(counts))
		for w := range counts {
			targets = append(targets, w)
		}
		sort.Ints(targets)
		for _, w := range targets {
			edges = append(edges, EdgeView{Source: u, Target: w, Count: counts[w]})
		}
	}
	return edges
}

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	return json.Marshal(v)
}

// NewLayout returns the layout registered under name: "circular", "force"
// or "concentric".
func NewLayout(name string, config *LayoutConfig, coreness []int) (Layout, error) {
	switch name {
	case "circular":
		return NewCircularLayout(config, coreness), nil
	case "force":
		return NewForceDirectedLayout(config), nil
	case "concentric":
		return NewConcentricLayout(config, coreness), nil
	default:
		return nil, fmt.Errorf("unknown layout %q", name)
	}
}
