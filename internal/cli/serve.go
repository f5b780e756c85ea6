package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/uldpack/internal/config"
	"github.com/matzehuels/uldpack/internal/server"
	"github.com/matzehuels/uldpack/pkg/archive"
	"github.com/matzehuels/uldpack/pkg/cache"
	"github.com/matzehuels/uldpack/pkg/observability"
	"github.com/matzehuels/uldpack/pkg/pipeline"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr       string
		configPath string
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the packing HTTP service",
		Long:  `Serve exposes the solver over HTTP: GET / for health, POST /api for solving, and POST /api/metrics for shape metrics. The service shuts down gracefully on SIGINT/SIGTERM.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			cch, err := c.serveCache(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer cch.Close()

			store, err := c.serveArchive(ctx, cfg)
			if err != nil {
				return err
			}
			defer store.Close(ctx)
			observability.SetSolverHooks(pipeline.NewArchiveHooks(store))

			runner := pipeline.NewRunner(cch, store, c.Logger)
			srv := server.New(runner, cfg.Server, c.Logger)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "listen address")
	cmd.Flags().StringVar(&configPath, "config", "", "config file path")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the solution cache")

	return cmd
}

// serveCache builds the configured cache backend. The server uses redis
// when configured; the other CLI commands never use redis and fall back to
// the file cache (or the null cache for --no-cache or backend "none").
func (c *CLI) serveCache(ctx context.Context, cfg config.Config, noCache bool) (cache.Cache, error) {
	if noCache || cfg.Cache.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache.Backend == "redis" {
		c.Logger.Debug("using redis cache", "addr", cfg.Cache.RedisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr})
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		return nil, err
	}
	return cache.NewFileCache(dir)
}

// serveArchive builds the run archive, or the null store when disabled.
func (c *CLI) serveArchive(ctx context.Context, cfg config.Config) (archive.Store, error) {
	if !cfg.Archive.Enabled {
		return archive.NewNullStore(), nil
	}
	c.Logger.Debug("using mongo archive", "database", cfg.Archive.Database)
	return archive.NewMongoStore(ctx, archive.MongoConfig{
		URI:      cfg.Archive.MongoURI,
		Database: cfg.Archive.Database,
	})
}
