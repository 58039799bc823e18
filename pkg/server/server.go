// Package server exposes the brandqr pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness probe
//	POST /api/qr           generate from JSON options, returns SVG and metadata
//	GET  /api/qr.svg       SVG download from query parameters
//	GET  /api/qr.png       PNG download (4x) from query parameters
//	POST /api/share        store a share page, returns its link
//	GET  /s/{id}           serve a stored share page
//	POST /api/classify     URL classification of a text
//
// Errors are JSON bodies of the form {"error":{"code":"...","message":"..."}}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/brandqr/pkg/pipeline"
	"github.com/matzehuels/brandqr/pkg/share"
)

// Server serves the HTTP API.
type Server struct {
	cfg    Config
	runner *pipeline.Runner
	store  share.Store
	logger *log.Logger
	router chi.Router
}

// New creates a server. The runner and store are owned by the caller.
func New(cfg Config, runner *pipeline.Runner, store share.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		runner: runner,
		store:  store,
		logger: logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	if s.cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.RequestSize(s.cfg.maxBodyBytes()))
		r.Post("/qr", s.handleGenerate)
		r.Get("/qr.svg", s.handleSVG)
		r.Get("/qr.png", s.handlePNG)
		r.Post("/share", s.handleShare)
		r.Post("/classify", s.handleClassify)
	})

	r.Get("/s/{id}", s.handleSharePage)
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
