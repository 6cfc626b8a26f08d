package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/workspace-agent/internal/logger"
)

// Endpoint is where the streamable HTTP transport is mounted.
const Endpoint = "/mcp"

const shutdownGrace = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported during the MCP handshake.
func WithVersion(v string) Option {
	return func(s *Server) {
		if v != "" {
			s.version = v
		}
	}
}

// Server exposes the agent as an MCP tool plus read-only resources.
type Server struct {
	ports   *Ports
	version string
	sdk     *mcp.Server

	// handleMu keeps one request in the agent at a time; it owns shared history.
	handleMu sync.Mutex
}

// NewServer validates ports and registers the tool and resources.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	s := &Server{ports: ports, version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	s.sdk = mcp.NewServer(&mcp.Implementation{Name: "wsagent", Version: s.version}, nil)

	s.registerTools()
	s.registerResources()
	return s, nil
}

// Version reports the version advertised to clients.
func (s *Server) Version() string {
	return s.version
}

// Run speaks MCP over stdin/stdout until ctx ends or the client hangs up.
func (s *Server) Run(ctx context.Context) error {
	return s.sdk.Run(ctx, &mcp.StdioTransport{})
}

// Handler routes Endpoint to the streamable HTTP transport and answers
// /health for load balancers.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.sdk }, nil)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"status":"ok","version":%q}`, s.version)
	})
	r.Handle(Endpoint, streamable)
	return r
}

// RunHTTP serves Handler on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	served := make(chan error, 1)
	go func() { served <- srv.ListenAndServe() }()
	logger.Info("mcp listening on %s%s", addr, Endpoint)

	select {
	case err := <-served:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("mcp: serve: %w", err)
	case <-ctx.Done():
	}

	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(stopCtx); err != nil {
		return fmt.Errorf("mcp: shutdown: %w", err)
	}
	return nil
}
