package algorithms

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

func graphFromEndpoints(endpoints []int) *graph.Graph {
	b := graph.NewBuilder()
	for i := 0; i+1 < len(endpoints); i += 2 {
		b.AddEdge(fmt.Sprintf("h%d", endpoints[i]), fmt.Sprintf("h%d", endpoints[i+1]), "Normal")
	}
	g, _ := b.Finalize()
	return g
}

// naiveKCore repeatedly deletes vertices whose induced degree is below k and
// returns membership of the survivors. Adjacency entries are counted with
// multiplicity, matching Degree.
func naiveKCore(g *graph.Graph, k int) []bool {
	n := g.NumVertices()
	alive := make([]bool, n)
	for v := range alive {
		alive[v] = true
	}

	for changed := true; changed; {
		changed = false
		for v := 0; v < n; v++ {
			if !alive[v] {
				continue
			}
			deg := 0
			g.ForEachNeighbor(v, func(u int) {
				if alive[u] {
					deg++
				}
			})
			if deg < k {
				alive[v] = false
				changed = true
			}
		}
	}
	return alive
}

// TestCoreNumbersInvariants checks the degeneracy guarantees against a naive
// peeling on random multigraphs, self-loops included.
func TestCoreNumbersInvariants(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	properties.Property("coreness never exceeds degree", prop.ForAll(
		func(endpoints []int) bool {
			g := graphFromEndpoints(endpoints)
			core := CoreNumbers(g)
			if len(core) != g.NumVertices() {
				return false
			}
			for v, c := range core {
				if c < 0 || c > g.Degree(v) {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.Property("{v : core[v] >= k} is exactly the maximal k-core", prop.ForAll(
		func(endpoints []int) bool {
			g := graphFromEndpoints(endpoints)
			core := CoreNumbers(g)

			for k := 0; k <= g.MaxDegree()+1; k++ {
				want := naiveKCore(g, k)
				for v, c := range core {
					if (c >= k) != want[v] {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.Property("k-core members have induced degree >= k", prop.ForAll(
		func(endpoints []int) bool {
			g := graphFromEndpoints(endpoints)
			result := DecomposeKCore(g)

			for k := 1; k <= result.Degeneracy; k++ {
				in := make([]bool, g.NumVertices())
				for _, v := range result.CoreMembers(k) {
					in[v] = true
				}
				for _, v := range result.CoreMembers(k) {
					deg := 0
					g.ForEachNeighbor(v, func(u int) {
						if in[u] {
							deg++
						}
					})
					if deg < k {
						return false
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.Property("decomposition is deterministic", prop.ForAll(
		func(endpoints []int) bool {
			g := graphFromEndpoints(endpoints)
			return reflect.DeepEqual(CoreNumbers(g), CoreNumbers(g))
		},
		gen.SliceOf(gen.IntRange(0, 15)),
	))

	properties.TestingRun(t)
}
