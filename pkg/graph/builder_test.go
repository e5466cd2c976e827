package graph

import (
	"errors"
	"testing"
)

func mustFinalize(t *testing.T, b *Builder) *Graph {
	t.Helper()
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return g
}

func mustAddEdge(t *testing.T, b *Builder, src, dst, label string) {
	t.Helper()
	if err := b.AddEdge(src, dst, label); err != nil {
		t.Fatalf("AddEdge(%q, %q) failed: %v", src, dst, err)
	}
}

func TestBuilder_Empty(t *testing.T) {
	g := mustFinalize(t, NewBuilder())

	if g.NumVertices() != 0 {
		t.Errorf("Expected 0 vertices, got %d", g.NumVertices())
	}
	if g.NumEdges() != 0 {
		t.Errorf("Expected 0 edges, got %d", g.NumEdges())
	}
	if g.MaxDegree() != 0 {
		t.Errorf("Expected max degree 0, got %d", g.MaxDegree())
	}
}

func TestBuilder_InternAssignsDenseIDs(t *testing.T) {
	b := NewBuilder()

	for i, key := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		id, err := b.Intern(key)
		if err != nil {
			t.Fatalf("Intern failed: %v", err)
		}
		if id != i {
			t.Errorf("Intern(%q) = %d, want %d", key, id, i)
		}
	}

	// Repeated keys keep their id
	for i := 0; i < 3; i++ {
		id, _ := b.Intern("10.0.0.2")
		if id != 1 {
			t.Errorf("Intern(10.0.0.2) = %d on repeat %d, want 1", id, i)
		}
	}

	if b.Len() != 3 {
		t.Errorf("Expected 3 keys, got %d", b.Len())
	}
}

func TestBuilder_IsolatedVertex(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Intern("192.168.1.5"); err != nil {
		t.Fatalf("Intern failed: %v", err)
	}
	g := mustFinalize(t, b)

	if g.NumVertices() != 1 {
		t.Fatalf("Expected 1 vertex, got %d", g.NumVertices())
	}
	if g.Degree(0) != 0 {
		t.Errorf("Expected degree 0, got %d", g.Degree(0))
	}
	if g.Label(0) != "" {
		t.Errorf("Expected empty label, got %q", g.Label(0))
	}
	if len(g.Neighbors(0)) != 0 {
		t.Errorf("Expected no neighbors, got %v", g.Neighbors(0))
	}
}

func TestBuilder_PathScenario(t *testing.T) {
	b := NewBuilder()
	mustAddEdge(t, b, "A", "B", "Normal")
	mustAddEdge(t, b, "A", "B", "Normal")
	mustAddEdge(t, b, "B", "C", "Botnet-CC")
	g := mustFinalize(t, b)

	if g.NumVertices() != 3 {
		t.Fatalf("Expected 3 vertices, got %d", g.NumVertices())
	}
	if g.NumEdges() != 3 {
		t.Errorf("Expected 3 edges, got %d", g.NumEdges())
	}

	tests := []struct {
		key    string
		id     int
		degree int
		label  string
	}{
		{"A", 0, 2, "Normal"},
		{"B", 1, 3, "Botnet-CC"},
		{"C", 2, 1, "Botnet-CC"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			id, ok := g.Lookup(tt.key)
			if !ok {
				t.Fatalf("Lookup(%q) not found", tt.key)
			}
			if id != tt.id {
				t.Errorf("id = %d, want %d", id, tt.id)
			}
			if g.Key(id) != tt.key {
				t.Errorf("Key(%d) = %q, want %q", id, g.Key(id), tt.key)
			}
			if g.Degree(id) != tt.degree {
				t.Errorf("Degree = %d, want %d", g.Degree(id), tt.degree)
			}
			if g.Label(id) != tt.label {
				t.Errorf("Label = %q, want %q", g.Label(id), tt.label)
			}
		})
	}

	// Multi-edge is kept with multiplicity
	a, _ := g.Lookup("A")
	if got := g.Neighbors(a); len(got) != 2 || got[0] != 1 || got[1] != 1 {
		t.Errorf("Neighbors(A) = %v, want [1 1]", got)
	}
}

func TestBuilder_LabelMerge(t *testing.T) {
	tests := []struct {
		name   string
		labels []string
		want   string
	}{
		{"first seen kept", []string{"Normal", "Background"}, "Normal"},
		{"priority overwrites", []string{"Normal", "Botnet-V42"}, "Botnet-V42"},
		{"priority is sticky", []string{"Botnet-V42", "Normal", "Botnet-Other"}, "Botnet-V42"},
		{"first priority wins", []string{"Background", "From-Botnet-V1", "To-Botnet-V2"}, "From-Botnet-V1"},
		{"marker is case sensitive", []string{"Normal", "botnet"}, "Normal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			for i, label := range tt.labels {
				mustAddEdge(t, b, "host", "peer"+string(rune('a'+i)), label)
			}
			g := mustFinalize(t, b)

			id, _ := g.Lookup("host")
			if g.Label(id) != tt.want {
				t.Errorf("Label = %q, want %q", g.Label(id), tt.want)
			}
			if g.IsPriority(id) != IsPriorityLabel(tt.want) {
				t.Errorf("IsPriority = %v, want %v", g.IsPriority(id), IsPriorityLabel(tt.want))
			}
		})
	}
}

func TestBuilder_SelfLoop(t *testing.T) {
	b := NewBuilder()
	mustAddEdge(t, b, "A", "A", "Normal")
	g := mustFinalize(t, b)

	if g.NumVertices() != 1 {
		t.Fatalf("Expected 1 vertex, got %d", g.NumVertices())
	}
	if g.Degree(0) != 2 {
		t.Errorf("Self-loop degree = %d, want 2", g.Degree(0))
	}
}

func TestBuilder_RejectsUseAfterFinalize(t *testing.T) {
	b := NewBuilder()
	mustAddEdge(t, b, "A", "B", "Normal")
	mustFinalize(t, b)

	if !b.Finalized() {
		t.Error("Finalized() = false after Finalize")
	}

	if err := b.AddEdge("A", "C", "Normal"); !errors.Is(err, ErrBuilderFinalized) {
		t.Errorf("AddEdge after Finalize: got %v, want ErrBuilderFinalized", err)
	}
	if _, err := b.Intern("D"); !errors.Is(err, ErrBuilderFinalized) {
		t.Errorf("Intern after Finalize: got %v, want ErrBuilderFinalized", err)
	}
	if _, err := b.Finalize(); !errors.Is(err, ErrBuilderFinalized) {
		t.Errorf("second Finalize: got %v, want ErrBuilderFinalized", err)
	}

	var gerr *GraphError
	err := b.AddEdge("A", "C", "Normal")
	if !errors.As(err, &gerr) {
		t.Fatalf("expected *GraphError, got %T", err)
	}
	if gerr.Op != "AddEdge" {
		t.Errorf("Op = %q, want AddEdge", gerr.Op)
	}
}

func TestGraph_NeighborsAreCopies(t *testing.T) {
	b := NewBuilder()
	mustAddEdge(t, b, "A", "B", "Normal")
	g := mustFinalize(t, b)

	n := g.Neighbors(0)
	n[0] = 42

	if got := g.Neighbors(0)[0]; got != 1 {
		t.Errorf("Graph adjacency mutated through Neighbors copy: got %d", got)
	}

	d := g.Degrees()
	d[0] = 99
	if g.Degree(0) != 1 {
		t.Errorf("Graph degree mutated through Degrees copy: got %d", g.Degree(0))
	}
}

func TestGraph_Vertex(t *testing.T) {
	b := NewBuilder()
	mustAddEdge(t, b, "A", "B", "Botnet-CC")
	g := mustFinalize(t, b)

	v, err := g.Vertex(1)
	if err != nil {
		t.Fatalf("Vertex(1) failed: %v", err)
	}
	if v.Key != "B" || v.Label != "Botnet-CC" || v.Degree != 1 {
		t.Errorf("Vertex(1) = %+v", v)
	}

	if _, err := g.Vertex(5); !errors.Is(err, ErrVertexOutOfRange) {
		t.Errorf("Vertex(5): got %v, want ErrVertexOutOfRange", err)
	}
	if _, err := g.Vertex(-1); !errors.Is(err, ErrVertexOutOfRange) {
		t.Errorf("Vertex(-1): got %v, want ErrVertexOutOfRange", err)
	}
}

func TestGraphError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GraphError
		expected string
	}{
		{
			name:     "with vertex",
			err:      &GraphError{Op: "Vertex", Vertex: 7, Cause: ErrVertexOutOfRange},
			expected: "Vertex vertex 7: vertex id out of range",
		},
		{
			name:     "with key",
			err:      &GraphError{Op: "AddEdge", Key: "10.0.0.1", Vertex: -1, Cause: ErrBuilderFinalized},
			expected: `AddEdge key "10.0.0.1": builder already finalized`,
		},
		{
			name:     "bare",
			err:      &GraphError{Op: "Finalize", Vertex: -1, Cause: ErrBuilderFinalized},
			expected: "Finalize: builder already finalized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}
