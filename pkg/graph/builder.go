package graph

import "strings"

// Builder accumulates an undirected contact graph from (src, dst, label)
// triples. It is not safe for concurrent use.
//
// A Builder moves through Empty -> Accumulating -> Finalized. Once Finalize
// has returned, every further call fails with ErrBuilderFinalized.
type Builder struct {
	state *buildState
}

// buildState is the mutable registry handed to the Graph on Finalize.
type buildState struct {
	ids    map[string]int
	keys   []string
	labels []string
	adj    [][]int
	edges  int
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{state: newBuildState(0)}
}

// NewBuilderWithCapacity creates a builder with room for the given number of
// distinct keys.
func NewBuilderWithCapacity(vertices int) *Builder {
	if vertices < 0 {
		vertices = 0
	}
	return &Builder{state: newBuildState(vertices)}
}

func newBuildState(capacity int) *buildState {
	return &buildState{
		ids:    make(map[string]int, capacity),
		keys:   make([]string, 0, capacity),
		labels: make([]string, 0, capacity),
		adj:    make([][]int, 0, capacity),
	}
}

// Intern returns the id of key, registering it with an empty label if it has
// not been seen before. Ids are dense and assigned in first-seen order.
func (b *Builder) Intern(key string) (int, error) {
	if b.state == nil {
		return -1, finalizedError("Intern", key)
	}
	return b.state.intern(key, ""), nil
}

// AddEdge records one undirected contact between src and dst. Both endpoints
// are interned against label, then each is appended to the other's
// adjacency list. Repeated pairs and self-loops are kept.
func (b *Builder) AddEdge(src, dst, label string) error {
	if b.state == nil {
		return finalizedError("AddEdge", src)
	}
	s := b.state
	u := s.intern(src, label)
	v := s.intern(dst, label)
	s.adj[u] = append(s.adj[u], v)
	s.adj[v] = append(s.adj[v], u)
	s.edges++
	return nil
}

// Len returns the number of distinct keys registered so far.
func (b *Builder) Len() int {
	if b.state == nil {
		return 0
	}
	return len(b.state.keys)
}

// Finalized reports whether Finalize has already been called.
func (b *Builder) Finalized() bool {
	return b.state == nil
}

// Finalize hands the accumulated state to an immutable Graph. The builder
// cannot be used afterwards.
func (b *Builder) Finalize() (*Graph, error) {
	if b.state == nil {
		return nil, finalizedError("Finalize", "")
	}
	s := b.state
	b.state = nil

	n := len(s.keys)
	degrees := make([]int, n)
	for v := 0; v < n; v++ {
		degrees[v] = len(s.adj[v])
	}

	return &Graph{
		ids:     s.ids,
		keys:    s.keys,
		labels:  s.labels,
		adj:     s.adj,
		degrees: degrees,
		edges:   s.edges,
	}, nil
}

// intern applies the label merge rule to an existing key or registers a new one.
func (s *buildState) intern(key, label string) int {
	if id, ok := s.ids[key]; ok {
		if merged := mergeLabel(s.labels[id], label); merged != s.labels[id] {
			s.labels[id] = strings.Clone(merged)
		}
		return id
	}
	// keys may be substrings of a much larger input line
	key = strings.Clone(key)
	id := len(s.keys)
	s.ids[key] = id
	s.keys = append(s.keys, key)
	s.labels = append(s.labels, strings.Clone(label))
	s.adj = append(s.adj, nil)
	return id
}
