package visualization

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// ForceDirectedLayout implements Fruchterman-Reingold style layout
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm. Only
// edges between the given vertices attract; repeated flows attract once.
func (fdl *ForceDirectedLayout) ComputeLayout(g *graph.Graph, vertices []int) (map[int]Position, error) {
	if len(vertices) == 0 {
		return make(map[int]Position), nil
	}

	// Single vertex - center it
	if len(vertices) == 1 {
		return map[int]Position{
			vertices[0]: {
				X: fdl.config.Width / 2,
				Y: fdl.config.Height / 2,
			},
		}, nil
	}

	rng := rand.New(rand.NewSource(fdl.config.Seed))
	index := make(map[int]int, len(vertices))
	pos := make([]Position, len(vertices))
	for i, v := range vertices {
		index[v] = i
		pos[i] = Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	// Distinct neighbour lists restricted to the selection
	neighbors := make([][]int, len(vertices))
	for i, v := range vertices {
		seen := make(map[int]bool)
		g.ForEachNeighbor(v, func(u int) {
			j, ok := index[u]
			if !ok || j == i || seen[j] {
				return
			}
			seen[j] = true
			neighbors[i] = append(neighbors[i], j)
		})
	}

	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(vertices))) // Optimal distance
	temperature := fdl.config.Width / 10.0
	forces := make([]Position, len(vertices))

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		for i := range forces {
			forces[i] = Position{}
		}

		// Repulsion between all pairs
		for i := 0; i < len(pos); i++ {
			for j := i + 1; j < len(pos); j++ {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					dist = 0.01
				}

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				forces[i].X += fx
				forces[i].Y += fy
				forces[j].X -= fx
				forces[j].Y -= fy
			}
		}

		// Attraction along edges
		for i, adj := range neighbors {
			for _, j := range adj {
				dx := pos[i].X - pos[j].X
				dy := pos[i].Y - pos[j].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				forces[i].X -= (dx / dist) * force
				forces[i].Y -= (dy / dist) * force
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for i := range pos {
			fx, fy := forces[i].X, forces[i].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force > 0 {
				step := math.Min(force, temperature) * cool
				pos[i].X += (fx / force) * step
				pos[i].Y += (fy / force) * step
			}
		}

		temperature *= 0.95
	}

	fitToCanvas(pos, fdl.config)

	positions := make(map[int]Position, len(vertices))
	for i, v := range vertices {
		positions[v] = pos[i]
	}
	return positions, nil
}

// fitToCanvas stretches pos in place so its bounding box fills the canvas
// inside the padding. A degenerate axis is centred.
func fitToCanvas(pos []Position, config *LayoutConfig) {
	if len(pos) == 0 {
		return
	}

	lo, hi := pos[0], pos[0]
	for _, p := range pos[1:] {
		lo.X, hi.X = math.Min(lo.X, p.X), math.Max(hi.X, p.X)
		lo.Y, hi.Y = math.Min(lo.Y, p.Y), math.Max(hi.Y, p.Y)
	}

	pad := config.Padding
	scale := func(v, from, to, size float64) float64 {
		if to-from < 0.01 {
			return size / 2
		}
		return pad + (v-from)/(to-from)*(size-2*pad)
	}
	for i := range pos {
		pos[i].X = scale(pos[i].X, lo.X, hi.X, config.Width)
		pos[i].Y = scale(pos[i].Y, lo.Y, hi.Y, config.Height)
	}
}
