package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flowline-dev/flowline/internal/server"
	"github.com/flowline-dev/flowline/pkg/cache"
	"github.com/flowline-dev/flowline/pkg/pipeline"
	"github.com/flowline-dev/flowline/pkg/store"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		mongoURI  string
		mongoDB   string
		redisAddr string
		memory    bool
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Run the HTTP API server.

The serve command starts an HTTP server exposing the resolve pipeline and
a diagram store. Diagrams persist in MongoDB when --mongo-uri is set,
otherwise in memory. Resolved layouts are cached in Redis when --redis is
set, falling back to the local file cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, mongoURI, mongoDB, redisAddr, memory, noCache)
		},
	}

	srv := c.Config.Serve
	cmd.Flags().StringVar(&addr, "addr", srv.Addr, "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", srv.MongoURI, "MongoDB connection URI for diagram storage")
	cmd.Flags().StringVar(&mongoDB, "mongo-db", srv.MongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&redisAddr, "redis", srv.RedisAddr, "Redis address for the layout cache")
	cmd.Flags().BoolVar(&memory, "memory", false, "store diagrams in memory even when --mongo-uri is set")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")

	return cmd
}

// runServe wires the store and cache, then blocks serving requests.
func (c *CLI) runServe(ctx context.Context, addr, mongoURI, mongoDB, redisAddr string, memory, noCache bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	st, err := c.newStore(ctx, mongoURI, mongoDB, memory)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close(context.Background())

	layoutCache, err := c.newServeCache(ctx, redisAddr, noCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}

	runner := pipeline.NewRunner(layoutCache, nil, logger)
	defer runner.Close()

	srv := server.New(runner, st, logger)
	prog.done("Server initialized")

	printInfo("Listening on %s", addr)
	return srv.ListenAndServe(ctx, addr)
}

// newStore selects MongoDB or in-memory diagram storage.
func (c *CLI) newStore(ctx context.Context, mongoURI, mongoDB string, memory bool) (store.Store, error) {
	if memory || mongoURI == "" {
		if mongoURI == "" {
			printWarning("No MongoDB URI configured, diagrams will not survive restarts")
		}
		return store.NewMemoryStore(), nil
	}
	return store.NewMongoStore(ctx, mongoURI, mongoDB)
}

// newServeCache selects Redis or the local cache for resolved layouts.
func (c *CLI) newServeCache(ctx context.Context, redisAddr string, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	if redisAddr != "" {
		return cache.NewRedisCache(ctx, redisAddr)
	}
	return newCache(false, c.Config.CacheDir)
}
