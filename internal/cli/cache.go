package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/styletower/pkg/cache"
	"github.com/matzehuels/styletower/pkg/config"
	"github.com/matzehuels/styletower/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the block cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached pages and blocks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			if err := fc.Clear(); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Cleared the cache")
			printDetail(cmd.OutOrStdout(), "Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := c.fileCacheDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

// fileCacheDir returns the directory the CLI caches into. Remote backends
// have no directory and are managed with their own tooling.
func (c *CLI) fileCacheDir() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	cc := cliCacheConfig(cfg.Cache, false)
	if cc.Backend != config.BackendFile || cc.Dir == "" {
		return "", errors.New(errors.ErrCodeUnsupported,
			"cache backend %q has no local directory", cfg.Cache.Backend)
	}
	return cc.Dir, nil
}
