package algorithms

import "github.com/dd0wney/cluso-flowcore/pkg/graph"

// TriangleCountResult holds triangle counting results including per-vertex
// counts, global count, clustering coefficients, and top vertices by
// triangle participation.
type TriangleCountResult struct {
	PerVertex              []int
	GlobalCount            int
	ClusteringCoefficients []float64
	TopVertices            []RankedVertex
}

// CountTriangles counts triangles over distinct neighbours. Repeated flows
// and self-loops are ignored here: a triangle is a property of the simple
// graph underneath the contact multigraph.
// For each vertex u, it iterates over pairs (v,w) in u's neighbour set; if v
// and w are also neighbours, that's a triangle. Each triangle is counted once
// per participating vertex, so GlobalCount = sum(PerVertex) / 3.
func CountTriangles(g *graph.Graph) *TriangleCountResult {
	n := g.NumVertices()

	neighborSets := make([]map[int]struct{}, n)
	for u := 0; u < n; u++ {
		set := make(map[int]struct{}, g.Degree(u))
		g.ForEachNeighbor(u, func(v int) {
			if v != u {
				set[v] = struct{}{}
			}
		})
		neighborSets[u] = set
	}

	perVertex := make([]int, n)
	for u := 0; u < n; u++ {
		neighbors := make([]int, 0, len(neighborSets[u]))
		for v := range neighborSets[u] {
			neighbors = append(neighbors, v)
		}

		count := 0
		for i := 0; i < len(neighbors); i++ {
			v := neighbors[i]
			for j := i + 1; j < len(neighbors); j++ {
				if _, ok := neighborSets[v][neighbors[j]]; ok {
					count++
				}
			}
		}
		perVertex[u] = count
	}

	// GlobalCount: each triangle counted 3 times (once per vertex)
	total := 0
	for _, c := range perVertex {
		total += c
	}

	coefficients := make([]float64, n)
	for u := 0; u < n; u++ {
		k := len(neighborSets[u])
		if k < 2 {
			continue
		}
		possible := k * (k - 1) / 2
		coefficients[u] = float64(perVertex[u]) / float64(possible)
	}

	return &TriangleCountResult{
		PerVertex:              perVertex,
		GlobalCount:            total / 3,
		ClusteringCoefficients: coefficients,
		TopVertices:            rankByScore(g, perVertex, 10),
	}
}
