package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bfreelanceseo/MapScraperPro/internal/core/domain"
	"github.com/bfreelanceseo/MapScraperPro/internal/core/ports/driving"
	"github.com/bfreelanceseo/MapScraperPro/internal/logger"
)

// Version is the MCP server version.
const Version = "0.1.0"

// Server is the MCP server for mapscraper.
//
// Tools act on a default session unless the caller passes a session_id, so a
// single assistant can search without tracking IDs.
type Server struct {
	ports  *Ports
	server *mcp.Server

	mu        sync.Mutex
	defaultID string
}

// NewServer creates a new MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "mapscraper",
		Version: Version,
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(impl, nil),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run starts the MCP server over stdio.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP starts the MCP server over HTTP on the specified address.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown when context is cancelled
	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// workspace resolves the session a tool call acts on.
// With no explicit ID the default session is used, opened on demand when
// create is set.
func (s *Server) workspace(ctx context.Context, id string, create bool) (driving.Workspace, error) {
	if id != "" {
		return s.ports.Workspaces.Get(id)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.defaultID != "" {
		ws, err := s.ports.Workspaces.Get(s.defaultID)
		if err == nil {
			return ws, nil
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		logger.Debug("Default MCP session %s expired", s.defaultID)
		s.defaultID = ""
	}

	if !create {
		return nil, domain.ErrNoActiveSession
	}

	ws, err := s.ports.Workspaces.Open(ctx)
	if err != nil {
		return nil, err
	}
	s.defaultID = ws.ID()
	return ws, nil
}
