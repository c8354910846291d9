package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/styletower/internal/metrics"
	"github.com/matzehuels/styletower/internal/server"
	"github.com/matzehuels/styletower/pkg/cache"
	"github.com/matzehuels/styletower/pkg/observability"
	"github.com/matzehuels/styletower/pkg/pipeline"
)

// serveFlags holds flags for the serve command.
type serveFlags struct {
	addr      string
	noMetrics bool
}

// serveCommand creates the serve command that runs the HTTP server.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve rendered components and style blocks over HTTP",
		Long: `Serve rendered components and style blocks over HTTP.

Routes:
  GET /render/{component}?prop=value
  GET /sheet/{token}.css
  GET /catalog
  GET /healthz
  GET /metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&flags.noMetrics, "no-metrics", false, "disable the /metrics endpoint")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	cfg, cat, err := c.loadCatalog()
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}

	cc, err := c.newCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer cc.Close()

	var m *metrics.Metrics
	if !flags.noMetrics {
		m = metrics.New()
		m.Install()
		defer observability.Reset()
	}

	runner := pipeline.NewRunner(cat, cc, cache.NewKeyer(cfg.Cache), c.Logger)
	srv := server.New(server.Options{Config: cfg, Runner: runner, Metrics: m, Logger: c.Logger})
	c.Logger.Info("starting server",
		"addr", cfg.Server.Addr,
		"components", cat.Len(),
		"cache", cfg.Cache.Backend)
	return srv.ListenAndServe(ctx)
}
