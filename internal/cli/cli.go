package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hextile/pkg/buildinfo"
	"github.com/matzehuels/hextile/pkg/cache"
	"github.com/matzehuels/hextile/pkg/observability"
	"github.com/matzehuels/hextile/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "hextile"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
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
		Short: "Hextile generates hexagonal tile layouts",
		Long: `Hextile grows compact clusters of flat-top hexagonal tiles toward a target
aspect ratio, extends them with tendrils, and colors them with a fixed
palette. Patterns are reproducible from their seed.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// EnableDebugHooks routes pipeline and cache events to the CLI logger.
func (c *CLI) EnableDebugHooks() {
	h := &logHooks{logger: c.Logger}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
}

// newRunner creates a pipeline runner backed by the local file cache, or
// by no cache at all when noCache is set.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

func newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		loggerFromContext(ctx).Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.Open(ctx, cache.BackendFile, dir)
}

// cacheDir is $XDG_CACHE_HOME/hextile, falling back to ~/.cache/hextile.
func cacheDir() (string, error) { return xdgDir("XDG_CACHE_HOME", ".cache") }

// configDir is $XDG_CONFIG_HOME/hextile, falling back to ~/.config/hextile.
func configDir() (string, error) { return xdgDir("XDG_CONFIG_HOME", ".config") }

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, appName), nil
}
