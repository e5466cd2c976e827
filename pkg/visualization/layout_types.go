package visualization

import (
	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// Position represents a 2D coordinate
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for randomised initial placement
}

// Layout places a subset of a graph's vertices on the canvas
type Layout interface {
	ComputeLayout(g *graph.Graph, vertices []int) (map[int]Position, error)
}
