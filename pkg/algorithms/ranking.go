package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// rankByScore orders vertices by score, highest first. sort.SliceStable
// keeps equal scores in ascending id order. n <= 0 returns every vertex.
func rankByScore(g *graph.Graph, scores []int, n int) []RankedVertex {
	order := make([]int, len(scores))
	for v := range order {
		order[v] = v
	}
	sort.SliceStable(order, func(i, j int) bool {
		return scores[order[i]] > scores[order[j]]
	})

	if n <= 0 || n > len(order) {
		n = len(order)
	}

	top := make([]RankedVertex, 0, n)
	for _, v := range order[:n] {
		top = append(top, RankedVertex{
			ID:     v,
			Key:    g.Key(v),
			Label:  g.Label(v),
			Degree: g.Degree(v),
			Score:  scores[v],
		})
	}
	return top
}
