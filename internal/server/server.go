// Package server exposes the analyze → render pipeline over HTTP.
//
// Endpoints:
//
//	GET  /healthz                       liveness probe
//	POST /api/generate                  prompt → stored infographic
//	POST /api/render                    scene JSON → PNG bytes
//	GET  /api/infographics              list stored documents (newest first)
//	GET  /api/infographics/{id}         one stored document (scene + metadata)
//	GET  /api/infographics/{id}/image   the rendered artifact bytes
//	DELETE /api/infographics/{id}       remove a stored document
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mhaertel/inkboard/pkg/pipeline"
	"github.com/mhaertel/inkboard/pkg/store"
)

// Config wires the server's collaborators.
type Config struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// RequestTimeout bounds one request end to end, LLM call included.
	RequestTimeout time.Duration
}

// Server handles HTTP requests.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	router chi.Router
}

// New builds the server and its route table.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	if cfg.Store == nil {
		cfg.Store = store.NewMemoryStore()
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}

	s := &Server{
		runner: cfg.Runner,
		store:  cfg.Store,
		logger: cfg.Logger,
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/render", s.handleRender)
		r.Get("/infographics", s.handleList)
		r.Get("/infographics/{id}", s.handleGet)
		r.Get("/infographics/{id}/image", s.handleImage)
		r.Delete("/infographics/{id}", s.handleDelete)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestID assigns a UUID to each request, honoring an inbound header so
// IDs survive proxies.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
