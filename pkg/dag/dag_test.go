package dag

import (
	"errors"
	"slices"
	"testing"
)

func TestAddNodeErrors(t *testing.T) {
	g := New(nil)
	if err := g.AddNode(Node{}); !errors.Is(err, ErrInvalidNodeID) {
		t.Errorf("AddNode(empty) = %v", err)
	}
	_ = g.AddNode(Node{ID: "a"})
	if err := g.AddNode(Node{ID: "a"}); !errors.Is(err, ErrDuplicateNodeID) {
		t.Errorf("AddNode(dup) = %v", err)
	}
	if err := g.AddEdge(Edge{From: "x", To: "a"}); !errors.Is(err, ErrUnknownSourceNode) {
		t.Errorf("AddEdge(unknown from) = %v", err)
	}
	if err := g.AddEdge(Edge{From: "a", To: "x"}); !errors.Is(err, ErrUnknownTargetNode) {
		t.Errorf("AddEdge(unknown to) = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		build func(g *DAG)
		want  error
	}{
		{
			name: "consecutive rows",
			build: func(g *DAG) {
				_ = g.AddNode(Node{ID: "a", Row: 0})
				_ = g.AddNode(Node{ID: "b", Row: 1})
				_ = g.AddEdge(Edge{From: "a", To: "b"})
			},
		},
		{
			name: "skipped row",
			build: func(g *DAG) {
				_ = g.AddNode(Node{ID: "a", Row: 0})
				_ = g.AddNode(Node{ID: "b", Row: 2})
				_ = g.AddEdge(Edge{From: "a", To: "b"})
			},
			want: ErrNonConsecutiveRows,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(nil)
			tt.build(g)
			if err := g.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestAssignLayersDepths(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"d2", "d1", "d0", "solo"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "d0", To: "d1"})
	_ = g.AddEdge(Edge{From: "d1", To: "d2"})

	order, err := AssignLayers(g)
	if err != nil {
		t.Fatalf("AssignLayers: %v", err)
	}
	if !slices.Equal(order, []string{"d0", "solo", "d1", "d2"}) {
		t.Errorf("order = %v", order)
	}
	for id, row := range map[string]int{"d0": 0, "d1": 1, "d2": 2, "solo": 0} {
		if n, _ := g.Node(id); n.Row != row {
			t.Errorf("%s row = %d, want %d", id, n.Row, row)
		}
	}
	if err := g.Validate(); err != nil {
		t.Errorf("Validate after layering: %v", err)
	}
	if got := NodeIDs(g.NodesInRow(0)); !slices.Equal(got, []string{"d0", "solo"}) {
		t.Errorf("row 0 = %v", got)
	}
	if g.MaxRow() != 2 {
		t.Errorf("MaxRow() = %d", g.MaxRow())
	}
}

func TestCycles(t *testing.T) {
	g := New(nil)
	for _, id := range []string{"a", "b", "c", "free"} {
		_ = g.AddNode(Node{ID: id})
	}
	_ = g.AddEdge(Edge{From: "a", To: "b"})
	_ = g.AddEdge(Edge{From: "b", To: "c"})
	_ = g.AddEdge(Edge{From: "c", To: "b"})

	if _, err := AssignLayers(g); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("AssignLayers = %v, want ErrGraphHasCycle", err)
	}
	if err := g.detectCycles(); !errors.Is(err, ErrGraphHasCycle) {
		t.Errorf("detectCycles = %v", err)
	}
	cycle := Cycle(g)
	if len(cycle) != 3 || cycle[0] != cycle[2] {
		t.Errorf("Cycle() = %v", cycle)
	}

	acyclic := New(nil)
	_ = acyclic.AddNode(Node{ID: "x"})
	if Cycle(acyclic) != nil {
		t.Error("Cycle() on an acyclic graph should be nil")
	}
}

func TestSourcesAndSinks(t *testing.T) {
	g := New(nil)
	_ = g.AddNode(Node{ID: "base"})
	_ = g.AddNode(Node{ID: "a", Row: 1})
	_ = g.AddNode(Node{ID: "b", Row: 1})
	_ = g.AddEdge(Edge{From: "base", To: "a"})
	_ = g.AddEdge(Edge{From: "base", To: "b"})

	if got := NodeIDs(g.Sources()); !slices.Equal(got, []string{"base"}) {
		t.Errorf("Sources() = %v", got)
	}
	if got := NodeIDs(g.Sinks()); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Sinks() = %v", got)
	}
	if !slices.Equal(g.Children("base"), []string{"a", "b"}) || !slices.Equal(g.Parents("a"), []string{"base"}) {
		t.Error("adjacency mismatch")
	}
	if g.OutDegree("base") != 2 || g.InDegree("a") != 1 {
		t.Error("degree mismatch")
	}
}
