package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/styletower/pkg/dag"
	"github.com/matzehuels/styletower/pkg/errors"
)

type graph struct {
	Meta  dag.Metadata `json:"meta,omitempty"`
	Nodes []node       `json:"nodes"`
	Edges []edge       `json:"edges"`
}

type node struct {
	ID   string       `json:"id"`
	Row  int          `json:"row"`
	Meta dag.Metadata `json:"meta,omitempty"`
}

type edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// WriteJSON encodes g as indented JSON and writes it to w.
func WriteJSON(g *dag.DAG, w io.Writer) error {
	out := graph{
		Meta:  g.Meta(),
		Nodes: make([]node, 0, g.NodeCount()),
		Edges: make([]edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		out.Nodes = append(out.Nodes, node{ID: n.ID, Row: n.Row, Meta: n.Meta})
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, edge{From: e.From, To: e.To})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode graph")
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *dag.DAG, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(g, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
