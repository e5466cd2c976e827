package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// CoreNumbers computes the coreness of every vertex using Batagelj-Zaversnik
// bucket-queue peeling in O(V+E).
//
// Vertices are never removed from a bucket. When a neighbour's core value
// drops it is pushed again into its new, lower bucket, and the stale entry
// is skipped later through the processed flag. A neighbour is decremented
// only while core[u] > k, so values already frozen at or below the current
// level are never touched.
func CoreNumbers(g *graph.Graph) []int {
	n := g.NumVertices()
	if n == 0 {
		return []int{}
	}
	core := g.Degrees()

	maxDeg := 0
	for _, d := range core {
		if d > maxDeg {
			maxDeg = d
		}
	}

	buckets := make([][]int, maxDeg+1)
	for v, d := range core {
		buckets[d] = append(buckets[d], v)
	}
	pointers := make([]int, maxDeg+1)
	processed := make([]bool, n)

	for k := 0; k <= maxDeg; k++ {
		// buckets[k] may grow while it is being drained
		for pointers[k] < len(buckets[k]) {
			v := buckets[k][pointers[k]]
			pointers[k]++
			if processed[v] {
				continue
			}
			processed[v] = true

			g.ForEachNeighbor(v, func(u int) {
				if core[u] > k {
					core[u]--
					buckets[core[u]] = append(buckets[core[u]], u)
				}
			})
		}
	}

	return core
}

// KCoreResult holds a coreness decomposition and views derived from it.
type KCoreResult struct {
	Coreness   []int       // Core number per vertex id
	Degeneracy int         // Largest core number, 0 for an empty graph
	Shells     map[int]int // Core number -> vertex count

	graph *graph.Graph
}

// RankedVertex represents a vertex with its rank score. For k-core rankings
// Score is the core number.
type RankedVertex struct {
	ID     int
	Key    string
	Label  string
	Degree int
	Score  int
}

// DecomposeKCore runs CoreNumbers and summarises the result.
func DecomposeKCore(g *graph.Graph) *KCoreResult {
	coreness := CoreNumbers(g)

	degeneracy := 0
	shells := make(map[int]int)
	for _, c := range coreness {
		shells[c]++
		if c > degeneracy {
			degeneracy = c
		}
	}

	return &KCoreResult{
		Coreness:   coreness,
		Degeneracy: degeneracy,
		Shells:     shells,
		graph:      g,
	}
}

// CoreMembers returns the vertices of the k-core, {v : core[v] >= k}, in id order.
func (r *KCoreResult) CoreMembers(k int) []int {
	members := make([]int, 0)
	for v, c := range r.Coreness {
		if c >= k {
			members = append(members, v)
		}
	}
	return members
}

// ShellOf returns the vertices whose core number is exactly k, in id order.
func (r *KCoreResult) ShellOf(k int) []int {
	shell := make([]int, 0, r.Shells[k])
	for v, c := range r.Coreness {
		if c == k {
			shell = append(shell, v)
		}
	}
	return shell
}

// ShellSizes returns (core, count) pairs sorted by descending core number.
func (r *KCoreResult) ShellSizes() [][2]int {
	sizes := make([][2]int, 0, len(r.Shells))
	for k, count := range r.Shells {
		sizes = append(sizes, [2]int{k, count})
	}
	sort.Slice(sizes, func(i, j int) bool { return sizes[i][0] > sizes[j][0] })
	return sizes
}

// TopVertices returns up to n vertices ranked by core number, highest first.
// Vertices with equal core numbers keep ascending id order. n <= 0 returns
// every vertex.
func (r *KCoreResult) TopVertices(n int) []RankedVertex {
	return rankByScore(r.graph, r.Coreness, n)
}

// PriorityInCore counts vertices of the k-core whose label carries the
// priority marker.
func (r *KCoreResult) PriorityInCore(k int) int {
	count := 0
	for v, c := range r.Coreness {
		if c >= k && r.graph.IsPriority(v) {
			count++
		}
	}
	return count
}
