// Package server hosts the HTTP surface of mediatrack. It is only
// constructed after the database has been migrated.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/aqasim81/mediatrack/internal/logging"
)

const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second

	// DefaultShutdownTimeout bounds how long in-flight requests may run after
	// the serve context is cancelled.
	DefaultShutdownTimeout = 10 * time.Second
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Ledger lists the migrations recorded as applied.
type Ledger interface {
	Applied() ([]string, error)
}

// Config holds the dependencies of a Server.
type Config struct {
	Addr            string
	DB              Pinger
	Ledger          Ledger
	Logger          *slog.Logger
	ShutdownTimeout time.Duration
}

// Server wraps an http.Server with the health endpoint installed.
type Server struct {
	httpServer      *http.Server
	db              Pinger
	ledger          Ledger
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

// New builds a Server from cfg. A nil logger discards output.
func New(cfg Config) *Server {
	s := &Server{
		db:              cfg.DB,
		ledger:          cfg.Ledger,
		logger:          cfg.Logger,
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	if s.logger == nil {
		s.logger = logging.Discard()
	}

	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = DefaultShutdownTimeout
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return s
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	return requestLogger(s.logger)(mux)
}

// ListenAndServe listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}

	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("http server listening", slog.String("addr", ln.Addr().String()))
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve http: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutdown http: %w", err)
	}

	s.logger.Info("http server stopped")

	return nil
}

type healthResponse struct {
	Status     string `json:"status"`
	Migrations int    `json:"migrations"`
	Error      string `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if s.db != nil {
		if err := s.db.PingContext(ctx); err != nil {
			s.writeJSON(ctx, w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}
	}

	count := 0

	if s.ledger != nil {
		applied, err := s.ledger.Applied()
		if err != nil {
			s.writeJSON(ctx, w, http.StatusServiceUnavailable, healthResponse{Status: "unavailable", Error: err.Error()})
			return
		}

		count = len(applied)
	}

	s.writeJSON(ctx, w, http.StatusOK, healthResponse{Status: "ok", Migrations: count})
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log := logging.FromContext(ctx)
		if log == nil {
			log = s.logger
		}

		log.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	var counter atomic.Uint64

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := counter.Add(1)
			logger := base.With(
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
			)

			ctx := logging.ContextWithLogger(r.Context(), logger)
			start := time.Now()
			next.ServeHTTP(w, r.WithContext(ctx))
			logger.DebugContext(ctx, "request completed", "duration", time.Since(start))
		})
	}
}
