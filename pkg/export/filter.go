// Package export writes analysis results to files and remote sinks.
package export

import "github.com/dd0wney/cluso-flowcore/pkg/graph"

// Dataset is the result of one run handed to the sinks.
type Dataset struct {
	RunID    string
	Graph    *graph.Graph
	Coreness []int
}

// Filter selects the hosts worth drawing: cores above MinCore, plus every
// priority-labelled host when IncludePriority is set.
type Filter struct {
	MinCore         int
	IncludePriority bool
}

// Keep reports whether vertex v passes the filter.
func (f Filter) Keep(ds Dataset, v int) bool {
	if ds.Coreness[v] > f.MinCore {
		return true
	}
	return f.IncludePriority && ds.Graph.IsPriority(v)
}

// Select returns the kept vertices in id order.
func (f Filter) Select(ds Dataset) []int {
	kept := make([]int, 0)
	for v := 0; v < ds.Graph.NumVertices(); v++ {
		if f.Keep(ds, v) {
			kept = append(kept, v)
		}
	}
	return kept
}
