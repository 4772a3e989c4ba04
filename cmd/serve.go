package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/rubiojr/shakesearch/pkg/api"
	"github.com/rubiojr/shakesearch/pkg/config"
	"github.com/rubiojr/shakesearch/pkg/corpus"
	"github.com/rubiojr/shakesearch/pkg/querylog"
	"github.com/rubiojr/shakesearch/pkg/realtime"
	"github.com/rubiojr/shakesearch/pkg/search"
)

// ServeCommand creates the serve command
func ServeCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the search API, websocket sessions and the web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind to (overrides config)",
			},
			&cli.StringFlag{
				Name:  "port",
				Usage: "Port to listen on (overrides config and PORT)",
			},
			&cli.StringFlag{
				Name:  "corpus",
				Usage: "Corpus file to index (overrides config)",
			},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if v := c.String("host"); v != "" {
				cfg.Server.Host = v
			}
			if v := c.String("port"); v != "" {
				cfg.Server.Port = v
			}
			if v := c.String("corpus"); v != "" {
				cfg.Corpus.Path = v
			}
			return serve(ctx, cfg)
		},
	}
}

// buildHandler wires the corpus, query log and HTTP layers together. qlog
// and hub may be nil.
func buildHandler(cfg *config.Config, index search.Index, qlog *querylog.Log, hub *realtime.Hub) http.Handler {
	serviceOpts := []search.Option{search.WithMaxPageSize(cfg.Search.MaxPageSize)}
	apiOpts := []api.Option{
		api.WithSessionPageSize(cfg.Search.PageSize),
		api.WithSessionStaleDiscard(cfg.Client.DiscardStale),
	}
	if qlog != nil {
		serviceOpts = append(serviceOpts, search.WithRecorder(qlog))
		apiOpts = append(apiOpts, api.WithQueryLog(qlog))
	}
	if hub != nil {
		apiOpts = append(apiOpts, api.WithHub(hub))
	}

	service := search.NewService(index, serviceOpts...)
	mux := http.NewServeMux()
	api.NewServer(service, apiOpts...).RegisterRoutes(mux)
	NewWebServer(service, cfg.Search.PageSize).RegisterRoutes(mux)

	return api.Middleware(mux)
}

// serve runs the HTTP server until the context is cancelled or a
// termination signal arrives.
func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	start := time.Now()
	store, err := corpus.Open(cfg.Corpus.Path, cfg.Corpus.ContextBytes)
	if err != nil {
		return fmt.Errorf("opening corpus: %w", err)
	}
	logger.Infof("indexed %s (%d bytes) in %s", store.Path(), store.Searcher().Size(), time.Since(start).Round(time.Millisecond))

	hub := realtime.NewHub(0)
	store.OnReload(func(s *corpus.Searcher) {
		hub.Broadcast(realtime.NewReloadEvent(store.Path(), s.Size()))
	})

	if cfg.Corpus.Watch {
		if err := store.Watch(ctx); err != nil {
			logger.Warnf("corpus will not be reloaded: %v", err)
		}
	}

	var qlog *querylog.Log
	if cfg.QueryLog.Path != "" {
		qlog, err = querylog.Open(cfg.QueryLog.Path)
		if err != nil {
			return fmt.Errorf("opening query log: %w", err)
		}
		defer func() {
			if err := qlog.Close(); err != nil {
				logger.Warnf("closing query log: %v", err)
			}
		}()
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           buildHandler(cfg, store, qlog, hub),
		ErrorLog:          logger.StdLogger(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("listening on http://%s", server.Addr)
		logger.Infof("  GET /           web UI")
		logger.Infof("  GET /search     q, page, pageSize")
		logger.Infof("  GET /ws         websocket search session")
		logger.Infof("  GET /api/stats  query log statistics")
		logger.Infof("  GET /health     health check")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("starting server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Infof("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
