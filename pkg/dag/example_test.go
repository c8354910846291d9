package dag_test

import (
	"fmt"

	"github.com/matzehuels/styletower/pkg/dag"
)

func ExampleDAG_basic() {
	// Button is extended by PrimaryButton, which is extended by DangerButton
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Button", Row: 0})
	_ = g.AddNode(dag.Node{ID: "PrimaryButton", Row: 1})
	_ = g.AddNode(dag.Node{ID: "DangerButton", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "Button", To: "PrimaryButton"})
	_ = g.AddEdge(dag.Edge{From: "PrimaryButton", To: "DangerButton"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Depth:", g.MaxRow())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Depth: 2
	// Valid: true
}

func ExampleAssignLayers() {
	// Nodes added in any order get rows from their extension depth
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "Card"})
	_ = g.AddNode(dag.Node{ID: "Box"})
	_ = g.AddNode(dag.Node{ID: "Panel"})
	_ = g.AddEdge(dag.Edge{From: "Box", To: "Card"})
	_ = g.AddEdge(dag.Edge{From: "Box", To: "Panel"})

	order, _ := dag.AssignLayers(g)
	card, _ := g.Node("Card")
	fmt.Println("Order:", order)
	fmt.Println("Card row:", card.Row)
	// Output:
	// Order: [Box Card Panel]
	// Card row: 1
}

func ExampleCycle() {
	g := dag.New(nil)
	_ = g.AddNode(dag.Node{ID: "A"})
	_ = g.AddNode(dag.Node{ID: "B"})
	_ = g.AddEdge(dag.Edge{From: "A", To: "B"})
	_ = g.AddEdge(dag.Edge{From: "B", To: "A"})

	_, err := dag.AssignLayers(g)
	fmt.Println(err)
	fmt.Println(dag.Cycle(g))
	// Output:
	// graph contains a cycle
	// [A B A]
}

func ExampleDAG_metadata() {
	g := dag.New(dag.Metadata{"name": "design-system"})
	_ = g.AddNode(dag.Node{
		ID:   "Button",
		Meta: dag.Metadata{"static": []string{"display:inline-flex;"}},
	})

	node, _ := g.Node("Button")
	fmt.Println("Graph:", g.Meta()["name"])
	fmt.Println("Definition:", node.ID)
	fmt.Println("Static:", node.Meta["static"])
	// Output:
	// Graph: design-system
	// Definition: Button
	// Static: [display:inline-flex;]
}
