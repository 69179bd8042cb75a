// Package server exposes the toolkit over HTTP: one multipart upload per
// request, one attachment download per response. Handlers stay thin: they
// parse the request, call the processor and shape the download.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wudi/pdfops/config"
	"github.com/wudi/pdfops/observability"
	"github.com/wudi/pdfops/ops"
)

// Server routes operation requests to a Processor.
type Server struct {
	cfg    config.Config
	proc   *ops.Processor
	logger observability.Logger
	router chi.Router
}

// New builds the HTTP surface around the given processor.
func New(cfg config.Config, proc *ops.Processor, logger observability.Logger) *Server {
	s := &Server{cfg: cfg, proc: proc, logger: logger}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Post("/api/{operation}", s.handleOperation)
	s.router = r
	return s
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe blocks serving on the configured address.
func (s *Server) ListenAndServe() error {
	s.logger.Info("listening", observability.String("addr", s.cfg.Addr))
	return http.ListenAndServe(s.cfg.Addr, s.router)
}
