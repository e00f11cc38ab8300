package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hextile/pkg/api"
	"github.com/matzehuels/hextile/pkg/cache"
	"github.com/matzehuels/hextile/pkg/imageproc"
	"github.com/matzehuels/hextile/pkg/pipeline"
	"github.com/matzehuels/hextile/pkg/store"
)

// serverKeyPrefix namespaces the server's keys in a shared Redis.
const serverKeyPrefix = appName + ":api:"

// serveFlags holds the command-line flags for the serve command.
type serveFlags struct {
	addr     string
	store    string
	storeDSN string
	redis    string
	images   int
}

// envOr returns the environment variable key, or def when it is unset.
func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API for pattern generation, photo uploads and overlay sizing.

Every flag falls back to an environment variable:
  --addr        HEXTILE_ADDR
  --store       HEXTILE_STORE        (memory, sqlite, mongo)
  --store-dsn   HEXTILE_STORE_DSN    (sqlite file path or mongodb:// URI)
  --redis       HEXTILE_REDIS        (cache address; empty disables caching)
  --images      HEXTILE_IMAGES       (uploaded images kept in memory)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", envOr("HEXTILE_ADDR", api.DefaultAddr), "listen address")
	cmd.Flags().StringVar(&f.store, "store", envOr("HEXTILE_STORE", store.BackendMemory), "pattern store: memory, sqlite, mongo")
	cmd.Flags().StringVar(&f.storeDSN, "store-dsn", envOr("HEXTILE_STORE_DSN", ""), "store location (sqlite path or mongodb URI)")
	cmd.Flags().StringVar(&f.redis, "redis", envOr("HEXTILE_REDIS", ""), "redis address or URL for the pattern cache")
	cmd.Flags().IntVar(&f.images, "images", envIntOr("HEXTILE_IMAGES", imageproc.DefaultRegistrySize), "uploaded images kept in memory")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, f *serveFlags) error {
	logger := loggerFromContext(ctx)

	backend := cache.BackendNone
	if f.redis != "" {
		backend = cache.BackendRedis
	}
	cc, err := cache.Open(ctx, backend, f.redis)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	runner := pipeline.NewRunner(cc, cache.NewScopedKeyer(nil, serverKeyPrefix), c.Logger)
	defer runner.Close()

	st, err := store.Open(ctx, f.store, f.storeDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	srv := api.New(api.Config{
		Runner: runner,
		Store:  st,
		Images: imageproc.NewRegistry(f.images),
		Logger: c.Logger,
	})

	logger.Info("Starting server", "addr", f.addr, "store", f.store, "cache", backend)
	return srv.ListenAndServe(ctx, f.addr)
}
