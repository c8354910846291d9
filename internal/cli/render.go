package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/styletower/pkg/errors"
	"github.com/matzehuels/styletower/pkg/pipeline"
)

// renderFlags holds flags for the render command.
type renderFlags struct {
	props      []string
	output     string
	blocksOnly bool
	refresh    bool
	noCache    bool
}

// renderCommand creates the render command for rendering one component.
func (c *CLI) renderCommand() *cobra.Command {
	var flags renderFlags

	cmd := &cobra.Command{
		Use:   "render <component>",
		Short: "Render a component to an HTML page",
		Long: `Render a catalog component to a complete HTML page whose head holds the
style blocks the component needs, base styles first.

Props fill the component's dynamic declarations:

  styletower render PrimaryButton --prop tone=teal
  styletower render PrimaryButton --blocks -o blocks.html`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeComponents,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringArrayVarP(&flags.props, "prop", "p", nil, "prop as name=value (repeatable)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to file instead of stdout")
	cmd.Flags().BoolVar(&flags.blocksOnly, "blocks", false, "print only the style blocks")
	cmd.Flags().BoolVar(&flags.refresh, "refresh", false, "ignore cached pages")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, w io.Writer, component string, flags renderFlags) error {
	props, err := parseProps(flags.props)
	if err != nil {
		return err
	}
	cfg, cat, err := c.loadCatalog()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, cat, flags.noCache)
	if err != nil {
		return err
	}
	defer runner.Cache.Close()

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.Execute(ctx, pipeline.Options{
		Component: component,
		Props:     props,
		// A cached page carries no block list.
		Refresh: flags.refresh || flags.blocksOnly,
		TTL:     cfg.Cache.TTL.Duration,
		Tag:     cfg.Sheet.TagOptions(),
	})
	if err != nil {
		return err
	}
	prog.done("Rendered " + component)

	out := res.Page
	if flags.blocksOnly {
		var b strings.Builder
		for _, blk := range res.Blocks {
			b.WriteString(blk.HTML())
			b.WriteByte('\n')
		}
		out = []byte(b.String())
	}

	if flags.output == "" {
		_, err := w.Write(out)
		return err
	}
	if err := os.WriteFile(flags.output, out, 0o644); err != nil {
		return err
	}
	printSuccess(w, "Rendered %s", component)
	printRenderStats(w, len(res.Blocks), res.ClassName, res.Cached)
	printFile(w, flags.output)
	return nil
}

// parseProps parses name=value pairs. A later pair overrides an earlier one.
func parseProps(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	props := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, value, ok := strings.Cut(p, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidInput, "prop %q must be name=value", p)
		}
		if err := errors.ValidatePropName(name); err != nil {
			return nil, err
		}
		props[name] = value
	}
	return props, nil
}

// completeComponents completes component names from the configured catalog.
func (c *CLI) completeComponents(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	_, cat, err := c.loadCatalog()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	return cat.Names(), cobra.ShellCompDirectiveNoFileComp
}
