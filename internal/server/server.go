// Package server assembles configuration, telemetry, authentication
// and the MCP toolset into a runnable server for either transport.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/lifewear/mcp-oura/pkg/auth"
	"github.com/lifewear/mcp-oura/pkg/config"
	"github.com/lifewear/mcp-oura/pkg/health"
	httpx "github.com/lifewear/mcp-oura/pkg/http"
	"github.com/lifewear/mcp-oura/pkg/middleware"
	"github.com/lifewear/mcp-oura/pkg/session"
	"github.com/lifewear/mcp-oura/pkg/telemetry"
	"github.com/lifewear/mcp-oura/pkg/tools"
)

// Version is overridden at build time via -ldflags.
var Version = "dev"

const (
	shutdownTimeout = 10 * time.Second

	// reconcileInterval bounds how long a disconnected connection's
	// session can outlive it.
	reconcileInterval = 30 * time.Second
)

// Server owns the MCP server and its supporting components for one
// process lifetime.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	sink     telemetry.Sink
	registry *session.Registry
	gate     *middleware.Gate
	checker  *health.Checker
	toolkit  *tools.Toolkit
	mcp      *mcp.Server
}

// New wires the full component graph from configuration. The telemetry
// sink receives the session and tool event stream; pass a NopSink to
// disable it.
func New(cfg *config.Config, logger *slog.Logger, sink telemetry.Sink) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if sink == nil {
		sink = telemetry.NopSink{}
	}

	registry := session.NewRegistry()
	authenticator := auth.NewAuthenticator(cfg.ClientConfig(), sink)

	// On stdio there is no request header to read, so a configured
	// token stands in for the Authorization header.
	fallback := ""
	if cfg.Server.Transport == config.TransportStdio && cfg.Oura.Token != "" {
		fallback = "Bearer " + cfg.Oura.Token
	}
	gate := middleware.NewGate(authenticator, registry, fallback)

	toolkit := tools.New(gate, sink)
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    cfg.Server.Name,
		Version: cfg.Server.Version,
	}, nil)
	toolkit.RegisterTools(mcpServer)

	return &Server{
		cfg:      cfg,
		logger:   logger,
		sink:     sink,
		registry: registry,
		gate:     gate,
		checker:  health.NewChecker(),
		toolkit:  toolkit,
		mcp:      mcpServer,
	}
}

// MCPServer exposes the underlying MCP server, mainly for in-memory
// transport tests.
func (s *Server) MCPServer() *mcp.Server { return s.mcp }

// Handler builds the HTTP mux: health probes plus the streamable MCP
// endpoint with the Authorization header propagated into context.
func (s *Server) Handler() http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.mcp
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/healthz", s.checker.LivenessHandler())
	mux.Handle("/readyz", s.checker.ReadinessHandler())
	mux.Handle("/mcp", httpx.AuthHeaderMiddleware(streamable))
	return mux
}

// reconcileSessions releases registry entries whose MCP connection has
// gone away. Sessions are connection-scoped, so a disconnected
// connection must not keep its credential-bound client alive.
func (s *Server) reconcileSessions() {
	live := make(map[string]bool)
	for ss := range s.mcp.Sessions() {
		live[ss.ID()] = true
	}
	for _, connID := range s.registry.Keys() {
		if !live[connID] {
			s.gate.Release(connID)
		}
	}
}

// janitor reconciles sessions on a fixed interval until ctx ends.
func (s *Server) janitor(ctx context.Context) {
	ticker := time.NewTicker(reconcileInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.reconcileSessions()
		}
	}
}

// Run serves until ctx is cancelled. For HTTP it listens on the
// configured address and shuts down gracefully; for stdio it speaks
// MCP over stdin/stdout.
func (s *Server) Run(ctx context.Context) error {
	defer func() { _ = s.toolkit.Close() }()
	go s.janitor(ctx)
	switch s.cfg.Server.Transport {
	case config.TransportHTTP:
		return s.runHTTP(ctx)
	case config.TransportStdio:
		s.checker.SetReady()
		s.logger.Info("serving on stdio",
			"name", s.cfg.Server.Name,
			"version", s.cfg.Server.Version)
		return s.mcp.Run(ctx, &mcp.StdioTransport{})
	default:
		return fmt.Errorf("unknown transport %q", s.cfg.Server.Transport)
	}
}

func (s *Server) runHTTP(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.Server.Address,
		Handler: s.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		s.checker.SetReady()
		s.logger.Info("serving MCP over HTTP",
			"address", s.cfg.Server.Address,
			"name", s.cfg.Server.Name,
			"version", s.cfg.Server.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.checker.SetDraining()
	s.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return <-errCh
}
