// Package dag provides a directed acyclic graph organized into rows, used
// to model how style definitions extend one another.
//
// # Overview
//
// Every definition is a node. An edge points from a base definition to a
// definition that extends it, and a node's row is its extension depth:
// definitions without a base sit in row 0, their direct extensions in row 1,
// and so on. With at most one base per definition every edge connects
// consecutive rows, which [DAG.Validate] checks.
//
// # Basic Usage
//
// Create a new graph with [New], add nodes with [DAG.AddNode], and edges with
// [DAG.AddEdge]. Rows can be set by hand or computed with [AssignLayers],
// which also yields a parents-first order for registering definitions:
//
//	g := dag.New(nil)
//	g.AddNode(dag.Node{ID: "Button"})
//	g.AddNode(dag.Node{ID: "PrimaryButton"})
//	g.AddEdge(dag.Edge{From: "Button", To: "PrimaryButton"})
//	order, err := dag.AssignLayers(g) // [Button PrimaryButton]
//
// A configuration that makes a definition extend itself, directly or
// through others, has no such order; [AssignLayers] returns
// [ErrGraphHasCycle] and [Cycle] names the definitions involved.
//
// # Metadata
//
// Both nodes and the graph itself support arbitrary metadata via [Metadata]
// maps. The catalog stores each definition's declarations there so graph
// renderings can show them.
//
// # Concurrency
//
// DAG instances are not safe for concurrent use. Callers must synchronize access
// if multiple goroutines read or modify the same graph.
package dag
