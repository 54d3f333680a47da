package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/grimoire-notes/grimoire/internal/logger"
)

// DefaultVersion is reported when the caller does not supply one.
const DefaultVersion = "0.1.0"

const shutdownGrace = 5 * time.Second

// Server exposes search and indexing to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

func NewServer(ports *Ports, version string) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("mcp ports: %w", err)
	}
	if version == "" {
		version = DefaultVersion
	}

	s := &Server{
		ports:  ports,
		server: mcp.NewServer(&mcp.Implementation{Name: "grimoire", Version: version}, nil),
	}
	s.registerTools()
	s.registerResources()
	return s, nil
}

// Run serves JSON-RPC on stdin/stdout until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler serves the streamable HTTP transport. Every session shares
// the same server.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return s.server }, nil)
}

// RunHTTP listens on addr until ctx ends, then drains open requests.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	stopped := make(chan error, 1)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		stopped <- srv.Shutdown(shutdownCtx)
	}()

	logger.Debug("mcp: http transport on %s", addr)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return <-stopped
}
