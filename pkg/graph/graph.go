package graph

import "slices"

// Graph is the immutable undirected contact graph produced by
// Builder.Finalize. Vertex ids run from 0 to NumVertices()-1.
//
// Adjacency lists are symmetric: if v appears k times in u's list, u appears
// k times in v's list. A Graph is safe for concurrent readers.
type Graph struct {
	ids     map[string]int
	keys    []string
	labels  []string
	adj     [][]int
	degrees []int
	edges   int
}

// NumVertices returns the number of distinct hosts.
func (g *Graph) NumVertices() int {
	return len(g.keys)
}

// NumEdges returns the number of edges added, counting repeats and self-loops.
func (g *Graph) NumEdges() int {
	return g.edges
}

// Key returns the original key of vertex v.
func (g *Graph) Key(v int) string {
	return g.keys[v]
}

// Label returns the category label of vertex v.
func (g *Graph) Label(v int) string {
	return g.labels[v]
}

// IsPriority reports whether vertex v carries the priority marker.
func (g *Graph) IsPriority(v int) bool {
	return IsPriorityLabel(g.labels[v])
}

// Degree returns the number of incident edge endpoints of v.
func (g *Graph) Degree(v int) int {
	return g.degrees[v]
}

// Degrees returns a copy of the degree array.
func (g *Graph) Degrees() []int {
	return slices.Clone(g.degrees)
}

// MaxDegree returns the largest degree in the graph, 0 when empty.
func (g *Graph) MaxDegree() int {
	maxDeg := 0
	for _, d := range g.degrees {
		if d > maxDeg {
			maxDeg = d
		}
	}
	return maxDeg
}

// Neighbors returns a copy of v's adjacency list, repeats included.
func (g *Graph) Neighbors(v int) []int {
	return slices.Clone(g.adj[v])
}

// ForEachNeighbor calls fn for every entry in v's adjacency list without
// copying it.
func (g *Graph) ForEachNeighbor(v int, fn func(u int)) {
	for _, u := range g.adj[v] {
		fn(u)
	}
}

// Lookup returns the id assigned to key.
func (g *Graph) Lookup(key string) (int, bool) {
	id, ok := g.ids[key]
	return id, ok
}

// Vertex returns a snapshot of vertex v.
func (g *Graph) Vertex(v int) (Vertex, error) {
	if v < 0 || v >= len(g.keys) {
		return Vertex{}, outOfRangeError("Vertex", v)
	}
	return Vertex{
		ID:     v,
		Key:    g.keys[v],
		Label:  g.labels[v],
		Degree: g.degrees[v],
	}, nil
}

// Vertex is a read-only view of one registered host.
type Vertex struct {
	ID     int    `json:"id"`
	Key    string `json:"key"`
	Label  string `json:"label"`
	Degree int    `json:"degree"`
}
