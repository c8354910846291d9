package catalog

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/styletower/pkg/dag"
)

// DOTOptions configures extension graph rendering.
type DOTOptions struct {
	// Detailed includes depth and declarations in node labels.
	// When false, only the component name is shown.
	Detailed bool
}

// ToDOT converts the extension graph to Graphviz DOT, bases on top.
// Components of equal depth share a rank. Components with dynamic
// declarations are drawn dashed.
func (c *Catalog) ToDOT(opts DOTOptions) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range c.graph.Nodes() {
		static, _ := n.Meta[MetaStatic].([]string)
		dynamic, _ := n.Meta[MetaDynamic].([]string)

		label := n.ID
		if opts.Detailed {
			parts := []string{n.ID, fmt.Sprintf("depth: %d", n.Row)}
			parts = append(parts, static...)
			parts = append(parts, dynamic...)
			label = strings.Join(parts, "\n")
		}
		attrs := []string{fmt.Sprintf("label=%q", label)}
		if len(dynamic) > 0 {
			attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, row := range c.graph.RowIDs() {
		ids := dag.NodeIDs(c.graph.NodesInRow(row))
		for i, id := range ids {
			ids[i] = strconv.Quote(id)
		}
		fmt.Fprintf(&buf, "  {rank=same; %s;}\n", strings.Join(ids, "; "))
	}

	buf.WriteString("\n")
	for _, e := range c.graph.Edges() {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
