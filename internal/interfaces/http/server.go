// Package http exposes the chart engine over a small JSON API: natal and
// synastry computation, wheel rendering, health and Prometheus metrics.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/astroluna/astroluna/internal/config"
)

type ctxKey string

const requestIDKey ctxKey = "request_id"

// Server is the HTTP front of the service.
type Server struct {
	router   *mux.Router
	server   *http.Server
	handlers *Handlers
	cfg      config.ServerConfig
}

// NewServer wires routes and middleware around the handlers.
func NewServer(cfg config.ServerConfig, handlers *Handlers) *Server {
	s := &Server{
		router:   mux.NewRouter(),
		handlers: handlers,
		cfg:      cfg,
	}
	s.setupRoutes()
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.timeoutMiddleware)

	s.router.HandleFunc("/health", s.handlers.Health).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.handlers.Metrics()).Methods(http.MethodGet)

	api := s.router.PathPrefix("/v1").Subrouter()
	api.HandleFunc("/chart", s.handlers.Chart).Methods(http.MethodPost)
	api.HandleFunc("/chart/wheel", s.handlers.ChartWheel).Methods(http.MethodPost)
	api.HandleFunc("/synastry", s.handlers.Synastry).Methods(http.MethodPost)
	api.HandleFunc("/synastry/wheel", s.handlers.SynastryWheel).Methods(http.MethodPost)

	s.router.NotFoundHandler = http.HandlerFunc(s.handlers.NotFound)
}

// Router returns the configured handler, mostly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start serves until Shutdown; a clean shutdown is not an error.
func (s *Server) Start() error {
	log.Info().Str("addr", s.cfg.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.New().String()[:8]
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		log.Info().
			Str("request_id", requestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("http request")
	})
}

func (s *Server) timeoutMiddleware(next http.Handler) http.Handler {
	budget := s.cfg.WriteTimeout()
	if budget <= 0 {
		budget = 30 * time.Second
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), budget)
		defer cancel()
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
