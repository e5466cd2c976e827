package visualization

import (
	"math"
	"slices"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// CircularLayout puts every selected host on one circle, clockwise from the
// top. Hosts are grouped by core number, highest first, so each shell
// occupies a contiguous arc. Without coreness the selection order is kept.
type CircularLayout struct {
	config   *LayoutConfig
	coreness []int
}

// NewCircularLayout creates a circular layout. coreness may be nil.
func NewCircularLayout(config *LayoutConfig, coreness []int) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config, coreness: coreness}
}

// ComputeLayout places the vertices at equal angular steps
func (cl *CircularLayout) ComputeLayout(g *graph.Graph, vertices []int) (map[int]Position, error) {
	positions := make(map[int]Position, len(vertices))
	if len(vertices) == 0 {
		return positions, nil
	}

	order := slices.Clone(vertices)
	if cl.coreness != nil {
		slices.SortStableFunc(order, func(a, b int) int {
			return cl.coreOf(b) - cl.coreOf(a)
		})
	}

	cx, cy := cl.config.Width/2, cl.config.Height/2
	r := math.Min(cx, cy) - cl.config.Padding
	step := 2 * math.Pi / float64(len(order))

	for i, v := range order {
		theta := float64(i)*step - math.Pi/2
		positions[v] = Position{X: cx + r*math.Cos(theta), Y: cy + r*math.Sin(theta)}
	}
	return positions, nil
}

func (cl *CircularLayout) coreOf(v int) int {
	if v < 0 || v >= len(cl.coreness) {
		return -1
	}
	return cl.coreness[v]
}
