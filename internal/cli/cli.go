// Package cli implements the styletower command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/styletower/pkg/buildinfo"
	"github.com/matzehuels/styletower/pkg/cache"
	"github.com/matzehuels/styletower/pkg/catalog"
	"github.com/matzehuels/styletower/pkg/config"
	"github.com/matzehuels/styletower/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "styletower"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
}

// New creates a new CLI instance with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Styletower renders components with server-extracted, rehydratable styles",
		Long: `Styletower renders catalog components to HTML whose head carries one
style block per style group, serves those blocks by content token, and
reconciles server markup back into a client stylesheet.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		cmd.SetContext(withLogger(cmd.Context(), c.Logger))
		return nil
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", "",
		"config file (default $"+config.EnvPath+")")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.rehydrateCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Config{}, err
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "components", len(cfg.Components))
	return cfg, nil
}

func (c *CLI) loadCatalog() (config.Config, *catalog.Catalog, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	cat, err := catalog.New(cfg.Components)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, cat, nil
}

// newRunner creates a pipeline runner for CLI use. A memory backend would
// not outlive the process, so the CLI uses the file cache in its place.
func (c *CLI) newRunner(ctx context.Context, cfg config.Config, cat *catalog.Catalog, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, cliCacheConfig(cfg.Cache, noCache))
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cat, cc, cache.NewKeyer(cfg.Cache), c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	cc, err := cache.New(ctx, cfg, c.Logger)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened cache", "backend", cfg.Backend)
	return cc, nil
}

func cliCacheConfig(cfg config.Cache, noCache bool) config.Cache {
	switch {
	case noCache:
		cfg.Backend = config.BackendNull
	case cfg.Backend == config.BackendMemory || cfg.Backend == "":
		dir, err := cacheDir()
		if err != nil {
			cfg.Backend = config.BackendNull
			break
		}
		cfg.Backend = config.BackendFile
		cfg.Dir = dir
	case cfg.Backend == config.BackendFile && cfg.Dir == "":
		if dir, err := cacheDir(); err == nil {
			cfg.Dir = dir
		}
	}
	return cfg
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/styletower/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
