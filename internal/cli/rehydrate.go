package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/styletower/pkg/rehydrate"
	"github.com/matzehuels/styletower/pkg/sheet"
)

// rehydrateCommand creates the rehydrate command that reconciles server
// markup into a fresh stylesheet.
func (c *CLI) rehydrateCommand() *cobra.Command {
	var showCSS bool

	cmd := &cobra.Command{
		Use:   "rehydrate <file.html>",
		Short: "Reconcile the style blocks of an HTML document",
		Long: `Read the style blocks of a server-rendered HTML document into a fresh
stylesheet and report what was restored. Use - to read stdin.

A document whose blocks do not match their tokens is reported as degraded:
the stylesheet is discarded and the client would regenerate its styles.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			return c.runRehydrate(cmd.Context(), cmd.OutOrStdout(), in, showCSS)
		},
	}

	cmd.Flags().BoolVar(&showCSS, "css", false, "print the reconciled stylesheet")

	return cmd
}

func (c *CLI) runRehydrate(ctx context.Context, w io.Writer, in io.Reader, showCSS bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	s := sheet.New(sheet.Options{Tag: cfg.Sheet.TagOptions()})

	report, err := rehydrate.Reconcile(ctx, s, in, rehydrate.Options{Logger: loggerFromContext(ctx)})
	if err != nil {
		return err
	}

	if report.Degraded {
		printWarning(w, "Markup rejected, styles would be regenerated")
		printDetail(w, "%s", report.Reason)
		return nil
	}
	if report.Blocks == 0 {
		printInfo(w, "No style blocks found")
		return nil
	}

	printSuccess(w, "Reconciled style blocks")
	printKeyValue(w, "Blocks", strconv.Itoa(report.Blocks))
	printKeyValue(w, "Groups", strconv.Itoa(report.Groups))
	printKeyValue(w, "Rules", strconv.Itoa(report.Rules))
	if showCSS {
		fmt.Fprintln(w)
		fmt.Fprint(w, s.String())
	}
	return nil
}
