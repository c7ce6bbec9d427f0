// Package http exposes the progress facade as a thin REST surface: JSON
// in, JSON out, no business logic. The out-of-scope UI talks to these
// routes; everything they return comes straight from facade result
// structs, so clients never re-derive progression state.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/learnpath/learnpath-progress/internal/application/progress"
	"github.com/learnpath/learnpath-progress/internal/domain/shared"
	"github.com/learnpath/learnpath-progress/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SERVER CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config contains HTTP server configuration.
type Config struct {
	// Host - address to bind (default: "0.0.0.0").
	Host string

	// Port - port to listen on (default: 8080).
	Port int

	// ReadTimeout - maximum duration for reading the entire request.
	ReadTimeout time.Duration

	// WriteTimeout - maximum duration for writing the response.
	WriteTimeout time.Duration

	// IdleTimeout - maximum duration for idle connections.
	IdleTimeout time.Duration

	// ShutdownTimeout - grace period for in-flight requests on shutdown.
	ShutdownTimeout time.Duration
}

// DefaultConfig returns default server configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "0.0.0.0",
		Port:            8080,
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Address returns the server address string.
func (c Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// SERVER
// ══════════════════════════════════════════════════════════════════════════════

// Server wraps the facade in an http.Server.
type Server struct {
	config     Config
	service    *progress.Service
	httpServer *http.Server
	router     *http.ServeMux
	log        *logger.Logger
}

// NewServer creates the HTTP server over the given facade.
func NewServer(config Config, service *progress.Service, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Default()
	}
	s := &Server{
		config:  config,
		service: service,
		router:  http.NewServeMux(),
		log:     log.With(logger.Component("http_server")),
	}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         config.Address(),
		Handler:      s.buildMiddlewareChain(s.router),
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}
	return s
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /healthz", s.handleHealth) // Kubernetes alias

	s.router.HandleFunc("GET /api/v1/learners/{id}/progress", s.handleGetProgress)
	s.router.HandleFunc("GET /api/v1/learners/{id}/modules/{module}", s.handleGetModuleProgress)
	s.router.HandleFunc("GET /api/v1/learners/{id}/modules/{module}/lessons", s.handleGetCompletedLessons)
	s.router.HandleFunc("GET /api/v1/learners/{id}/badges", s.handleGetBadges)
	s.router.HandleFunc("GET /api/v1/learners/{id}/achievements", s.handleGetAchievements)

	s.router.HandleFunc("POST /api/v1/learners/{id}/lessons/complete", s.handleCompleteLesson)
	s.router.HandleFunc("POST /api/v1/learners/{id}/xp", s.handleAddXP)
	s.router.HandleFunc("POST /api/v1/learners/{id}/badges", s.handleAwardBadge)
	s.router.HandleFunc("POST /api/v1/learners/{id}/achievements", s.handleUnlockAchievement)
	s.router.HandleFunc("POST /api/v1/learners/{id}/activity", s.handleTouchActivity)

	s.router.HandleFunc("DELETE /api/v1/learners/{id}/progress", s.handleClearProgress)
}

// Start runs the server until the listener fails or Stop is called.
func (s *Server) Start() error {
	s.log.Info("http server starting", logger.String("address", s.config.Address()))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.log.Info("http server stopping")
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler returns the full middleware-wrapped handler. Test hook.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// buildMiddlewareChain wraps the router with all middleware.
// Applied in reverse order: recovery must be outermost.
func (s *Server) buildMiddlewareChain(handler http.Handler) http.Handler {
	h := handler
	h = s.requestIDMiddleware(h)
	h = s.loggingMiddleware(h)
	h = s.recoveryMiddleware(h)
	return h
}

// requestIDMiddleware attaches a request id, honoring an inbound one.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		ctx := logger.WithContext(r.Context(), s.log.WithRequestID(requestID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// loggingMiddleware logs every request with latency and status.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		logger.FromContext(r.Context()).Info("http request",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Int("status", rw.status),
			logger.Latency(time.Since(start)),
		)
	})
}

// recoveryMiddleware turns handler panics into 500 responses.
func (s *Server) recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("http handler panicked",
					logger.String("path", r.URL.Path),
					logger.Any("panic", rec),
					logger.String("stack", string(debug.Stack())),
				)
				writeError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HELPERS
// ══════════════════════════════════════════════════════════════════════════════

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps facade errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case shared.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, shared.ErrConcurrentModification):
		writeError(w, http.StatusConflict, err.Error())
	case shared.IsStorage(err):
		writeError(w, http.StatusServiceUnavailable, "storage unavailable")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
