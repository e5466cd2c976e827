package visualization

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/dd0wney/cluso-flowcore/pkg/graph"
)

func distance(p1, p2 Position) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func testGraph(t *testing.T, edges ...[3]string) *graph.Graph {
	t.Helper()
	b := graph.NewBuilder()
	for _, e := range edges {
		if err := b.AddEdge(e[0], e[1], e[2]); err != nil {
			t.Fatalf("AddEdge failed: %v", err)
		}
	}
	g, err := b.Finalize()
	if err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	return g
}

// TestForceDirectedLayout tests the force-directed layout algorithm
func TestForceDirectedLayout(t *testing.T) {
	g := testGraph(t,
		[3]string{"alice", "bob", "Normal"},
		[3]string{"bob", "charlie", "Normal"},
	)

	layout := NewForceDirectedLayout(&LayoutConfig{
		Width:      800,
		Height:     600,
		Iterations: 50,
		Seed:       7,
	})

	positions, err := layout.ComputeLayout(g, []int{0, 1, 2})
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	if len(positions) != 3 {
		t.Errorf("Expected 3 positions, got %d", len(positions))
	}

	for v, pos := range positions {
		if pos.X < 0 || pos.X > 800 {
			t.Errorf("Vertex %d X position %f out of bounds", v, pos.X)
		}
		if pos.Y < 0 || pos.Y > 600 {
			t.Errorf("Vertex %d Y position %f out of bounds", v, pos.Y)
		}
	}

	// alice and charlie are not directly connected, should be furthest apart
	dist01 := distance(positions[0], positions[1])
	dist12 := distance(positions[1], positions[2])
	dist02 := distance(positions[0], positions[2])
	if dist02 < dist01 || dist02 < dist12 {
		t.Error("Force-directed layout did not separate unconnected vertices properly")
	}

	// Same seed, same picture
	again, _ := NewForceDirectedLayout(&LayoutConfig{Width: 800, Height: 600, Iterations: 50, Seed: 7}).ComputeLayout(g, []int{0, 1, 2})
	for v := range positions {
		if positions[v] != again[v] {
			t.Errorf("Vertex %d moved between seeded runs: %v vs %v", v, positions[v], again[v])
		}
	}
}

// TestCircularLayout tests circular layout algorithm
func TestCircularLayout(t *testing.T) {
	g := testGraph(t,
		[3]string{"a", "b", "Normal"},
		[3]string{"c", "d", "Normal"},
		[3]string{"e", "a", "Normal"},
	)
	vertices := []int{0, 1, 2, 3, 4}

	layout := NewCircularLayout(&LayoutConfig{Width: 800, Height: 600}, nil)
	positions, err := layout.ComputeLayout(g, vertices)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	center := Position{X: 400, Y: 300}
	first := distance(positions[0], center)
	for _, v := range vertices {
		d := distance(positions[v], center)
		if math.Abs(d-first)/first > 0.05 {
			t.Errorf("Circular layout not uniform: vertex %d at %f, expected %f", v, d, first)
		}
	}

	// The first vertex sits at the top of the circle
	if math.Abs(positions[0].X-400) > 0.001 || positions[0].Y >= 300 {
		t.Errorf("Vertex 0 at %v, expected top of circle", positions[0])
	}
}

func TestCircularLayout_GroupsByCore(t *testing.T) {
	// Pendant d is seen first; triangle a-b-c forms the 2-core
	g := testGraph(t,
		[3]string{"d", "a", "Normal"},
		[3]string{"a", "b", "Normal"},
		[3]string{"b", "c", "Normal"},
		[3]string{"c", "a", "Normal"},
	)
	coreness := []int{1, 2, 2, 2}

	layout := NewCircularLayout(&LayoutConfig{Width: 800, Height: 800}, coreness)
	positions, err := layout.ComputeLayout(g, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	// a (id 1) leads the highest shell and takes the top slot; d comes last
	top := positions[1]
	if math.Abs(top.X-400) > 0.001 || math.Abs(top.Y-50) > 0.001 {
		t.Errorf("Vertex a at %v, expected (400, 50)", top)
	}
	last := positions[0]
	if math.Abs(last.X-50) > 0.001 || math.Abs(last.Y-400) > 0.001 {
		t.Errorf("Vertex d at %v, expected (50, 400)", last)
	}
}

func TestConcentricLayout(t *testing.T) {
	// Triangle a-b-c (core 2) with pendant d (core 1)
	g := testGraph(t,
		[3]string{"a", "b", "Normal"},
		[3]string{"b", "c", "Normal"},
		[3]string{"c", "a", "Normal"},
		[3]string{"a", "d", "Normal"},
	)
	coreness := []int{2, 2, 2, 1}

	layout := NewConcentricLayout(&LayoutConfig{Width: 800, Height: 800}, coreness)
	positions, err := layout.ComputeLayout(g, []int{0, 1, 2, 3})
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	center := Position{X: 400, Y: 400}
	inner := distance(positions[0], center)
	outer := distance(positions[3], center)
	if inner >= outer {
		t.Errorf("Higher core should be nearer the centre: inner %f, outer %f", inner, outer)
	}
	for _, v := range []int{1, 2} {
		if math.Abs(distance(positions[v], center)-inner) > 0.001 {
			t.Errorf("Vertex %d not on the core-2 ring", v)
		}
	}

	if _, err := layout.ComputeLayout(g, []int{9}); err == nil {
		t.Error("Expected error for vertex without core number")
	}
}

func TestFitToCanvas(t *testing.T) {
	pos := []Position{
		{X: -100, Y: -50},
		{X: 300, Y: 950},
		{X: 100, Y: 200},
	}

	fitToCanvas(pos, &LayoutConfig{Width: 800, Height: 600, Padding: 50})
	for i, p := range pos {
		if p.X < 50-0.001 || p.X > 750+0.001 || p.Y < 50-0.001 || p.Y > 550+0.001 {
			t.Errorf("Vertex %d at %v outside padded bounds", i, p)
		}
	}
	if pos[0].X != 50 || pos[1].X != 750 {
		t.Errorf("Extremes not stretched to bounds: %v", pos)
	}

	flat := []Position{{X: 3, Y: 1}, {X: 3, Y: 9}}
	fitToCanvas(flat, &LayoutConfig{Width: 800, Height: 600, Padding: 50})
	if flat[0].X != 400 || flat[1].X != 400 {
		t.Errorf("Degenerate axis not centred: %v", flat)
	}
}

func TestEmptyGraph(t *testing.T) {
	g := testGraph(t)
	config := &LayoutConfig{Width: 800, Height: 600}

	layouts := []Layout{
		NewForceDirectedLayout(config),
		NewCircularLayout(config, nil),
		NewConcentricLayout(config, nil),
	}
	for _, layout := range layouts {
		positions, err := layout.ComputeLayout(g, nil)
		if err != nil {
			t.Errorf("%T failed on empty input: %v", layout, err)
		}
		if len(positions) != 0 {
			t.Errorf("%T returned %d positions for empty input", layout, len(positions))
		}
	}
}

func TestBuildAndExportJSON(t *testing.T) {
	g := testGraph(t,
		[3]string{"a", "b", "Normal"},
		[3]string{"a", "b", "Normal"},
		[3]string{"b", "c", "Botnet-CC"},
		[3]string{"c", "c", "Botnet-CC"},
		[3]string{"c", "d", "Normal"},
	)
	coreness := []int{2, 2, 2, 1}

	layout, err := NewLayout("concentric", &LayoutConfig{Width: 400, Height: 400}, coreness)
	if err != nil {
		t.Fatalf("NewLayout failed: %v", err)
	}

	viz, err := Build(g, coreness, []int{0, 1, 2}, layout)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if len(viz.Nodes) != 3 {
		t.Fatalf("Expected 3 nodes, got %d", len(viz.Nodes))
	}
	want := []EdgeView{{Source: 0, Target: 1, Count: 2}, {Source: 1, Target: 2, Count: 1}}
	if len(viz.Edges) != len(want) {
		t.Fatalf("Edges = %+v, want %+v", viz.Edges, want)
	}
	for i := range want {
		if viz.Edges[i] != want[i] {
			t.Errorf("Edges[%d] = %+v, want %+v", i, viz.Edges[i], want[i])
		}
	}
	if !viz.Nodes[2].Priority || viz.Nodes[0].Priority {
		t.Errorf("priority flags wrong: %+v", viz.Nodes)
	}

	data, err := viz.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	var decoded map[string][]map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(decoded["nodes"]) != 3 || len(decoded["edges"]) != 2 {
		t.Errorf("decoded = %v", decoded)
	}
	if decoded["nodes"][0]["key"] != "a" {
		t.Errorf("first node key = %v, want a", decoded["nodes"][0]["key"])
	}
}

func TestBuild_Errors(t *testing.T) {
	g := testGraph(t, [3]string{"a", "b", "Normal"})

	if _, err := Build(g, []int{1}, []int{0}, NewCircularLayout(&LayoutConfig{Width: 10, Height: 10}, nil)); err == nil {
		t.Error("Expected error for short coreness array")
	}
	if _, err := NewLayout("spiral", &LayoutConfig{}, nil); err == nil {
		t.Error("Expected error for unknown layout")
	}
}
