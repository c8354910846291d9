package cli

import (
	"bytes"
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/styletower/pkg/catalog"
	"github.com/matzehuels/styletower/pkg/errors"
	graphio "github.com/matzehuels/styletower/pkg/io"
)

// graphFlags holds flags for the graph command.
type graphFlags struct {
	svg      bool
	json     bool
	tree     bool
	detailed bool
	output   string
}

// graphCommand creates the graph command that draws the extension graph.
func (c *CLI) graphCommand() *cobra.Command {
	var flags graphFlags

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Draw the component extension graph",
		Long: `Draw the component extension graph of the configured catalog, bases on
top. Prints Graphviz DOT, SVG with --svg, JSON with --json, or an indented
tree with --tree.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGraph(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.svg, "svg", false, "render SVG instead of DOT")
	cmd.Flags().BoolVar(&flags.json, "json", false, "print nodes and edges as JSON")
	cmd.Flags().BoolVar(&flags.tree, "tree", false, "print the hierarchy as an indented tree")
	cmd.Flags().BoolVar(&flags.detailed, "detailed", false, "show depth and declarations")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to file instead of stdout")

	return cmd
}

func (c *CLI) runGraph(ctx context.Context, w, status io.Writer, flags graphFlags) error {
	formats := 0
	for _, set := range []bool{flags.svg, flags.json, flags.tree} {
		if set {
			formats++
		}
	}
	if formats > 1 {
		return errors.New(errors.ErrCodeInvalidInput, "--svg, --json and --tree are mutually exclusive")
	}
	_, cat, err := c.loadCatalog()
	if err != nil {
		return err
	}

	out := []byte(cat.ToDOT(catalog.DOTOptions{Detailed: flags.detailed}))
	switch {
	case flags.tree:
		out = []byte(cat.ToTree(catalog.DOTOptions{Detailed: flags.detailed}))
	case flags.json:
		if flags.output != "" {
			if err := graphio.ExportJSON(cat.Graph(), flags.output); err != nil {
				return err
			}
			printSuccess(w, "Exported %d components", cat.Len())
			printFile(w, flags.output)
			return nil
		}
		var buf bytes.Buffer
		if err := graphio.WriteJSON(cat.Graph(), &buf); err != nil {
			return err
		}
		out = buf.Bytes()
	case flags.svg:
		sp := newSpinner(ctx, status, "Laying out graph...")
		sp.Start()
		prog := newProgress(loggerFromContext(ctx))
		svg, err := catalog.RenderSVG(ctx, string(out))
		if err != nil {
			sp.StopWithError("Layout failed")
			return err
		}
		sp.Stop()
		prog.done("Rendered graph")
		out = svg
	}

	if flags.output == "" {
		_, err := w.Write(out)
		return err
	}
	if err := os.WriteFile(flags.output, out, 0o644); err != nil {
		return err
	}
	printSuccess(w, "Drew %d components", cat.Len())
	printFile(w, flags.output)
	return nil
}
