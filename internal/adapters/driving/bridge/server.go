// Package bridge exposes the agent to Slack. It receives Events API
// callbacks, runs each human message through the agent and posts the
// rendered Result back to the originating channel.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"

	"github.com/custodia-labs/workspace-agent/internal/core/ports/driven"
	"github.com/custodia-labs/workspace-agent/internal/core/ports/driving"
	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// DefaultRequestsPerMinute is the per-IP limit when none is configured.
const DefaultRequestsPerMinute = 60

// requestTimeout bounds a single agent run started from an event.
const requestTimeout = 2 * time.Minute

var (
	// ErrMissingAgent is returned when the agent is not provided.
	ErrMissingAgent = errors.New("bridge: agent is required")

	// ErrMissingPoster is returned when the chat poster is not provided.
	ErrMissingPoster = errors.New("bridge: chat poster is required")
)

// Config configures the bridge HTTP server.
type Config struct {
	// Addr is the listen address, e.g. ":3000".
	Addr string

	// SigningSecret verifies request signatures. Empty disables verification.
	SigningSecret string

	// RequestsPerMinute is the per-IP rate limit.
	RequestsPerMinute int
}

// Option configures optional server collaborators.
type Option func(*Server)

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// Server is the chat bridge.
type Server struct {
	agent   driving.Agent
	poster  driven.ChatPoster
	cfg     Config
	metrics http.Handler
	timeout time.Duration

	// mu serialises agent calls so the shared conversation is never raced.
	mu sync.Mutex
	wg sync.WaitGroup
}

// NewServer creates a bridge for the given agent and poster.
func NewServer(agent driving.Agent, poster driven.ChatPoster, cfg Config, opts ...Option) (*Server, error) {
	if agent == nil {
		return nil, ErrMissingAgent
	}
	if poster == nil {
		return nil, ErrMissingPoster
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultRequestsPerMinute
	}

	s := &Server{agent: agent, poster: poster, cfg: cfg, timeout: requestTimeout}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(rateLimit(s.cfg.RequestsPerMinute))
		r.Post("/slack/events", s.handleEvents)
	})

	return r
}

// rateLimit limits requests per client IP over a one minute window.
func rateLimit(limit int) func(http.Handler) http.Handler {
	return httprate.Limit(
		limit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(int(time.Minute.Seconds())))
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate_limit_exceeded"}`))
		}),
	)
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("chat bridge listening on %s", s.cfg.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("bridge: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("bridge: shutdown: %w", err)
	}
	s.Wait()
	return nil
}

// Wait blocks until every dispatched event has been answered.
func (s *Server) Wait() {
	s.wg.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
