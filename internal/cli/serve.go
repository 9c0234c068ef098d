package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/borelog/borelog/internal/server"
	"github.com/borelog/borelog/pkg/cache"
	"github.com/borelog/borelog/pkg/errors"
	"github.com/borelog/borelog/pkg/pipeline"
)

// defaultServeAddr is the default listen address for the render service.
const defaultServeAddr = ":8080"

// serveKeyPrefix scopes service cache keys apart from local CLI runs pointed
// at the same backend.
const serveKeyPrefix = "serve:"

// serveCommand creates the serve command that runs the HTTP render service.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		redisURL string
		mongoURL string
		cacheDir string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP render service",
		Long: `Run the HTTP render service.

The service exposes the same drawing pipeline as the draw command:

  POST /v1/drawings   render a record table to dxf, svg, png or json
  GET  /v1/palettes   list the embedded color palettes
  GET  /v1/renders    recent render history (needs --mongo)
  GET  /healthz       liveness probe

With --redis, rendered artifacts are cached in Redis and shared across
replicas; otherwise the local file cache is used. With --mongo, every
render is archived to MongoDB and exposed under /v1/renders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, redisURL, mongoURL, cacheDir, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().StringVar(&redisURL, "redis", "", "redis URL for the shared artifact cache (redis://host:port/db)")
	cmd.Flags().StringVar(&mongoURL, "mongo", "", "mongodb URL for the render archive (mongodb://host:port)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "directory for the local file cache (defaults to the user cache dir)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable artifact caching")

	return cmd
}

// runServe wires the cache, archive and runner together and runs the service
// until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, addr, redisURL, mongoURL, cacheDir string, noCache bool) error {
	store, cacheDesc, err := newServeCache(ctx, redisURL, cacheDir, noCache)
	if err != nil {
		return err
	}

	keyer := cache.NewScopedKeyer(nil, serveKeyPrefix)
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	defer runner.Close()

	var archive server.Archive
	archiveDesc := "disabled"
	if mongoURL != "" {
		mongo, err := server.NewMongoArchive(ctx, mongoURL)
		if err != nil {
			return err
		}
		defer mongo.Close(context.Background())
		archive = mongo
		archiveDesc = "mongodb"
	}

	fmt.Println(StyleTitle.Render("Borelog render service"))
	printKeyValue("Address", StyleLink.Render(serveURL(addr)))
	printKeyValue("Cache", cacheDesc)
	if !noCache {
		printKeyValue("Cache TTL", StyleNumber.Render(fmt.Sprintf("%gd", cache.TTLArtifact.Hours()/24)))
	}
	printKeyValue("Archive", archiveDesc)
	printNewline()

	return server.New(runner, archive, c.Logger).Run(ctx, addr)
}

// newServeCache picks the artifact cache backend for the service.
func newServeCache(ctx context.Context, redisURL, cacheDir string, noCache bool) (cache.Cache, string, error) {
	switch {
	case noCache:
		return cache.NewNullCache(), "disabled", nil
	case redisURL != "":
		store, err := cache.NewRedisCache(ctx, redisURL)
		if err != nil {
			return nil, "", errors.Wrap(errors.ErrCodeStoreUnavailable, err, "connecting to redis")
		}
		return store, "redis", nil
	case cacheDir != "":
		store, err := cache.NewFileCache(cacheDir)
		if err != nil {
			return nil, "", err
		}
		return store, cacheDir, nil
	default:
		store, err := newCache(false)
		if err != nil {
			return nil, "", err
		}
		return store, "local files", nil
	}
}

// serveURL renders a listen address as a browsable URL.
func serveURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
