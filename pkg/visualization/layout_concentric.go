package visualization

import (
	"fmt"
	"math"
	"sort"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// ConcentricLayout draws the k-core "onion": one ring per distinct core
// number, the innermost core at the centre.
type ConcentricLayout struct {
	config   *LayoutConfig
	coreness []int
}

// NewConcentricLayout creates a concentric layout over a coreness array
func NewConcentricLayout(config *LayoutConfig, coreness []int) *ConcentricLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ConcentricLayout{config: config, coreness: coreness}
}

// ComputeLayout places every vertex on the ring of its core number
func (cl *ConcentricLayout) ComputeLayout(g *graph.Graph, vertices []int) (map[int]Position, error) {
	positions := make(map[int]Position, len(vertices))

	if len(vertices) == 0 {
		return positions, nil
	}

	rings := make(map[int][]int)
	for _, v := range vertices {
		if v < 0 || v >= len(cl.coreness) {
			return nil, fmt.Errorf("vertex %d has no core number", v)
		}
		k := cl.coreness[v]
		rings[k] = append(rings[k], v)
	}

	levels := make([]int, 0, len(rings))
	for k := range rings {
		levels = append(levels, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	maxRadius := math.Min(centerX, centerY) - cl.config.Padding

	// A single ring sits on the outer radius; otherwise ring i of n is at
	// (i+1)/n of it, so the innermost core is never collapsed onto a point.
	for i, k := range levels {
		ring := rings[k]
		radius := maxRadius * float64(i+1) / float64(len(levels))
		if len(levels) == 1 && len(ring) == 1 {
			radius = 0
		}

		angleStep := 2 * math.Pi / float64(len(ring))
		for j, v := range ring {
			angle := float64(j) * angleStep
			positions[v] = Position{
				X: centerX + radius*math.Cos(angle),
				Y: centerY + radius*math.Sin(angle),
			}
		}
	}

	return positions, nil
}
