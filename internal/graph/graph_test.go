package graph

import (
	"slices"
	"testing"
)

func TestGraphBasic(t *testing.T) {
	g := New()

	g.AddNode("a")
	g.AddNode("b")
	g.AddEdge("a", "b")

	if !g.HasNode("a") {
		t.Error("graph should have node a")
	}
	if !g.HasNode("b") {
		t.Error("graph should have node b")
	}
	if deps := g.Dependencies("a"); len(deps) != 1 || deps[0] != "b" {
		t.Errorf("a dependencies = %v, want [b]", deps)
	}
}

func TestAddEdgeCreatesNodes(t *testing.T) {
	g := New()

	// No AddNode calls, only AddEdge.
	g.AddEdge("a", "b")

	if !g.HasNode("a") {
		t.Error("AddEdge should create 'from' node")
	}
	if !g.HasNode("b") {
		t.Error("AddEdge should create 'to' node")
	}
	if got := g.Nodes(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("nodes = %v, want [a b]", got)
	}
}

func TestDuplicateEdges(t *testing.T) {
	g := New()

	g.AddEdge("a", "b")
	g.AddEdge("a", "b")
	g.AddEdge("a", "b")

	if len(g.Dependencies("a")) != 1 {
		t.Errorf("dependencies = %d, want 1 (duplicate edges deduplicated)", len(g.Dependencies("a")))
	}
}

func TestOrderEmpty(t *testing.T) {
	order, cycles := New().Order()
	if len(order) != 0 || len(cycles) != 0 {
		t.Errorf("empty graph: order = %v, cycles = %v", order, cycles)
	}
}

func TestOrderChain(t *testing.T) {
	g := New()
	// rare earths <- bauxite <- lead
	g.AddEdge("rare_earths", "bauxite")
	g.AddEdge("bauxite", "lead")

	order, cycles := g.Order()
	if len(cycles) != 0 {
		t.Fatalf("cycles = %v, want none", cycles)
	}
	want := []string{"lead", "bauxite", "rare_earths"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestOrderDiamond(t *testing.T) {
	g := New()
	g.AddEdge("top", "left")
	g.AddEdge("top", "right")
	g.AddEdge("left", "bottom")
	g.AddEdge("right", "bottom")

	order, cycles := g.Order()
	if len(cycles) != 0 {
		t.Fatalf("cycles = %v, want none", cycles)
	}
	pos := make(map[string]int)
	for i, k := range order {
		pos[k] = i
	}
	if len(order) != 4 {
		t.Fatalf("order = %v, want 4 nodes", order)
	}
	if pos["bottom"] > pos["left"] || pos["bottom"] > pos["right"] {
		t.Errorf("bottom must precede left and right: %v", order)
	}
	if pos["top"] != 3 {
		t.Errorf("top must come last: %v", order)
	}
}

func TestOrderSimpleCycle(t *testing.T) {
	g := New()
	g.AddEdge("a", "b")
	g.AddEdge("b", "a")

	order, cycles := g.Order()
	if len(order) != 0 {
		t.Errorf("order = %v, want empty", order)
	}
	if len(cycles) != 1 || !slices.Equal(cycles[0], []string{"a", "b"}) {
		t.Errorf("cycles = %v, want [[a b]]", cycles)
	}
	if !g.HasCycles() {
		t.Error("HasCycles should be true")
	}
}

func TestOrderCycleDependents(t *testing.T) {
	g := New()
	g.AddEdge("x", "a")
	g.AddEdge("a", "b")
	g.AddEdge("b", "c")
	g.AddEdge("c", "a")

	order, cycles := g.Order()
	if !slices.Equal(order, []string{"x"}) {
		t.Errorf("order = %v, want [x]", order)
	}
	if len(cycles) != 1 || !slices.Equal(cycles[0], []string{"a", "b", "c"}) {
		t.Errorf("cycles = %v, want [[a b c]]", cycles)
	}
}

func TestSelfLoop(t *testing.T) {
	g := New()
	g.AddEdge("a", "a")
	g.AddNode("b")

	order, cycles := g.Order()
	if !slices.Equal(order, []string{"b"}) {
		t.Errorf("order = %v, want [b]", order)
	}
	if len(cycles) != 1 || !slices.Equal(cycles[0], []string{"a"}) {
		t.Errorf("cycles = %v, want [[a]]", cycles)
	}
}

func TestOrderDisconnected(t *testing.T) {
	g := New()
	g.AddNode("one")
	g.AddNode("two")
	g.AddNode("three")

	order, _ := g.Order()
	if !slices.Equal(order, []string{"one", "two", "three"}) {
		t.Errorf("order = %v, want insertion order", order)
	}
	if g.HasCycles() {
		t.Error("HasCycles should be false")
	}
}
