package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/matzehuels/molview/internal/server"
	"github.com/matzehuels/molview/pkg/cache"
	"github.com/matzehuels/molview/pkg/errors"
	"github.com/matzehuels/molview/pkg/observability"
	"github.com/matzehuels/molview/pkg/pipeline"
	"github.com/matzehuels/molview/pkg/storage"
)

// storeCloseTimeout bounds disconnecting from the structure store on exit.
const storeCloseTimeout = 5 * time.Second

type serveFlags struct {
	addr     string
	redisURL string
	mongoURI string
	noCache  bool
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var flags serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

The API serves layouts, rendered artifacts and reference molecules, and
keeps a collection of saved structures. Saved structures live in MongoDB
when --mongo is given and in memory otherwise. Prometheus metrics are
exposed on /metrics.`,
		Example: `  molview serve
  molview serve --addr :9000 --redis redis://localhost:6379/0 --mongo mongodb://localhost:27017`,
		Args: cobra.NoArgs,
		PreRun: func(cmd *cobra.Command, args []string) {
			if !cmd.Flags().Changed("addr") {
				flags.addr = c.Config.Server.Addr
			}
			if !cmd.Flags().Changed("mongo") {
				flags.mongoURI = c.Config.Server.MongoURI
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&flags.redisURL, "redis", "", "Redis URL for the shared cache (default: configured backend)")
	cmd.Flags().StringVar(&flags.mongoURI, "mongo", "", "MongoDB URI for saved structures (default: in memory)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, flags serveFlags) error {
	if flags.redisURL != "" {
		if err := errors.ValidateURL(flags.redisURL, "redis", "rediss"); err != nil {
			return err
		}
	}
	if flags.mongoURI != "" {
		if err := errors.ValidateURL(flags.mongoURI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
	}

	runner, err := c.serveRunner(ctx, flags)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	store, err := c.openStore(ctx, flags.mongoURI)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), storeCloseTimeout)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			c.Logger.Warn("close store", "error", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(reg)
	observability.SetPipelineHooks(metrics)
	observability.SetCacheHooks(metrics)
	observability.SetHTTPHooks(metrics)
	defer observability.Reset()

	srv := server.New(server.Config{
		Runner:   runner,
		Store:    store,
		Logger:   c.Logger,
		Gatherer: reg,
	})
	return srv.ListenAndServe(ctx, flags.addr)
}

// serveRunner uses --redis when given and the configured cache otherwise.
// Unlike the CLI commands, an explicit Redis URL that cannot be reached is
// fatal.
func (c *CLI) serveRunner(ctx context.Context, flags serveFlags) (*pipeline.Runner, error) {
	if flags.redisURL == "" || flags.noCache {
		return c.newRunner(ctx, flags.noCache)
	}
	rc, err := cache.NewRedisCache(ctx, flags.redisURL, cache.DefaultRedisPrefix)
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "url", flags.redisURL)
	r := pipeline.NewRunner(rc, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL
	return r, nil
}

// openStore connects to MongoDB when uri is set.
func (c *CLI) openStore(ctx context.Context, uri string) (storage.Store, error) {
	if uri == "" {
		c.Logger.Info("saved structures are kept in memory")
		return storage.NewMemoryStore(), nil
	}
	ms, err := storage.NewMongoStore(ctx, storage.MongoConfig{
		URI:      uri,
		Database: c.Config.Server.MongoDatabase,
	})
	if err != nil {
		return nil, fmt.Errorf("open structure store: %w", err)
	}
	c.Logger.Info("using mongo store", "database", c.Config.Server.MongoDatabase)
	return ms, nil
}
