package algorithms

import (
	"container/list"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

// Component is one connected component of the contact graph.
type Component struct {
	ID       int
	Vertices []int
	Size     int
	Edges    int // Edge endpoints inside the component divided by two, repeats included
}

// ComponentResult contains the connected components of a graph.
type ComponentResult struct {
	Components      []*Component
	VertexComponent []int // Vertex id -> component id
}

// Largest returns the component with the most vertices, nil for an empty graph.
func (r *ComponentResult) Largest() *Component {
	var largest *Component
	for _, c := range r.Components {
		if largest == nil || c.Size > largest.Size {
			largest = c
		}
	}
	return largest
}

// ConnectedComponents finds all connected components with a BFS from each
// unvisited vertex in id order, so component ids follow first-seen order.
func ConnectedComponents(g *graph.Graph) *ComponentResult {
	n := g.NumVertices()

	visited := make([]bool, n)
	vertexComponent := make([]int, n)
	components := make([]*Component, 0)

	for start := 0; start < n; start++ {
		if visited[start] {
			continue
		}

		component := &Component{
			ID:       len(components),
			Vertices: make([]int, 0),
		}

		queue := list.New()
		queue.PushBack(start)
		visited[start] = true

		endpoints := 0
		for queue.Len() > 0 {
			v, ok := queue.Remove(queue.Front()).(int)
			if !ok {
				continue
			}
			component.Vertices = append(component.Vertices, v)
			vertexComponent[v] = component.ID
			endpoints += g.Degree(v)

			g.ForEachNeighbor(v, func(u int) {
				if !visited[u] {
					visited[u] = true
					queue.PushBack(u)
				}
			})
		}

		component.Size = len(component.Vertices)
		component.Edges = endpoints / 2
		components = append(components, component)
	}

	return &ComponentResult{
		Components:      components,
		VertexComponent: vertexComponent,
	}
}
