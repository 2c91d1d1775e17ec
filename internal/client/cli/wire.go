package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/dmitrijs2005/docsmith/internal/client/api"
	"github.com/dmitrijs2005/docsmith/internal/client/config"
	"github.com/dmitrijs2005/docsmith/internal/client/githubx"
	"github.com/dmitrijs2005/docsmith/internal/client/services"
	"github.com/dmitrijs2005/docsmith/internal/client/session"
	"github.com/dmitrijs2005/docsmith/internal/client/sink"
	"github.com/dmitrijs2005/docsmith/internal/client/storage"
	"github.com/dmitrijs2005/docsmith/internal/logging"
	"github.com/dmitrijs2005/docsmith/internal/metrics"
)

// NewAppFromConfig opens local state and builds the gateway, session store
// and services described by c. Call Close when done.
func NewAppFromConfig(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.New(os.Stderr, c.LogLevel)

	db, err := storage.Open(ctx, c.StatePath)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	gw := api.NewGateway(c.APIBaseURL,
		api.WithLogger(log),
		api.WithMetrics(m),
		api.WithTimeout(c.RequestTimeout),
	)

	store := session.New(gw, storage.NewSQLiteTokenStore(db), log, session.WithMetrics(m))
	gw.SetTokenSource(store)
	gw.SetUnauthorizedHandler(store.Invalidate)

	var out sink.Sink = sink.NewFileSink(c.DownloadDir)
	if c.S3.Enabled() {
		s3s, err := sink.NewS3Sink(ctx, c.S3)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("s3 sink: %w", err)
		}
		out = s3s
	}
	saver := sink.NewReadmeSaver(gw, out, log)
	gw.SetOpener(saver)

	var checker RepoChecker
	if c.GitHubPreflight {
		gc, err := githubx.NewChecker(c.GitHubToken)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("github checker: %w", err)
		}
		checker = gc
	}

	app := NewApp(Deps{
		Session:  store,
		Backend:  gw,
		Projects: services.NewProjectService(gw, log),
		Checker:  checker,
		Saved:    saver,
		Log:      log,
	})
	app.closers = append(app.closers, func(context.Context) error { return db.Close() })

	if c.MetricsAddr != "" {
		stop, err := serveMetrics(ctx, c.MetricsAddr, m, log)
		if err != nil {
			_ = app.Close(ctx)
			return nil, err
		}
		app.closers = append(app.closers, stop)
	}

	return app, nil
}

// serveMetrics exposes /metrics on addr until the returned stop is called.
func serveMetrics(ctx context.Context, addr string, m *metrics.Metrics, log logging.Logger) (func(context.Context) error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("metrics listen %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "metrics server stopped", "error", err)
		}
	}()
	log.Info(ctx, "metrics listening", "addr", ln.Addr().String())

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}
