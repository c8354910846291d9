// Package server serves rendered components and their style blocks over HTTP.
//
// Routes:
//
//	GET /render/{component}?prop=value  complete HTML page for a component
//	GET /sheet/{token}.css              one cached style block
//	GET /catalog                        component names, base first
//	GET /healthz                        liveness
//	GET /metrics                        Prometheus metrics, when enabled
package server

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/styletower/internal/metrics"
	"github.com/matzehuels/styletower/pkg/config"
	"github.com/matzehuels/styletower/pkg/pipeline"
)

// Server is the styletower HTTP server.
type Server struct {
	cfg     config.Server
	sheet   config.Sheet
	ttl     time.Duration
	runner  *pipeline.Runner
	metrics *metrics.Metrics
	logger  *log.Logger
	router  chi.Router
}

// Options configures a Server.
type Options struct {
	Config  config.Config
	Runner  *pipeline.Runner
	Metrics *metrics.Metrics // nil disables /metrics
	Logger  *log.Logger
}

// New creates a Server and its routes.
func New(opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:     opts.Config.Server,
		sheet:   opts.Config.Sheet,
		ttl:     opts.Config.Cache.TTL.Duration,
		runner:  opts.Runner,
		metrics: opts.Metrics,
		logger:  logger.WithPrefix("http"),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/catalog", s.handleCatalog)
	r.Get("/render/{component}", s.handleRender)
	r.Get("/sheet/{file}", s.handleSheet)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	return r
}

// ListenAndServe serves until ctx is canceled, then shuts down gracefully
// within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadTimeout.Duration,
		ReadTimeout:       s.cfg.ReadTimeout.Duration,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", s.cfg.ShutdownTimeout.Duration)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout.Duration)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
