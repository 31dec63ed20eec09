package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/mhaertel/inkboard/internal/server"
	"github.com/mhaertel/inkboard/pkg/cache"
	"github.com/mhaertel/inkboard/pkg/pipeline"
	"github.com/mhaertel/inkboard/pkg/store"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr     string // listen address
	redisURL string // optional Redis cache URL
	mongoURI string // optional MongoDB connection string
	mongoDB  string // MongoDB database name
	model    string // model name override
	noCache  bool   // disable caching entirely
}

// serveCommand creates the serve command that runs the HTTP API.
// Without --redis the file cache is used; without --mongo-uri documents
// live in memory and are lost on restart.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:    ":8080",
		mongoDB: appName,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the result cache (default: file cache)")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string (default: in-memory store)")
	cmd.Flags().StringVar(&opts.mongoDB, "mongo-db", opts.mongoDB, "MongoDB database name")
	cmd.Flags().StringVar(&opts.model, "model", "", "model name (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ch, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}

	runner := pipeline.NewRunner(ch, nil, c.newAnalyzer(opts.model), c.Logger)
	defer runner.Close()

	st, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           server.New(server.Config{Runner: runner, Store: st, Logger: c.Logger}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// serveCache picks the server-side cache: Redis when configured,
// otherwise the same file cache the CLI commands use.
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.redisURL != "" && !opts.noCache {
		c.Logger.Info("using redis cache", "url", opts.redisURL)
		return cache.NewRedisCache(ctx, opts.redisURL)
	}
	return newCache(opts.noCache, c.Config.CacheDir)
}

// serveStore picks the document store: MongoDB when configured,
// otherwise in-memory.
func (c *CLI) serveStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	if opts.mongoURI != "" {
		c.Logger.Info("using mongodb store", "db", opts.mongoDB)
		return store.NewMongoStore(ctx, opts.mongoURI, opts.mongoDB, "infographics")
	}
	return store.NewMemoryStore(), nil
}
