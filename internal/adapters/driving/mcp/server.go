package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pidash/internal/logger"
)

// DefaultVersion is reported when Ports.Version is empty.
const DefaultVersion = "dev"

// instructions tell clients what the server is for.
const instructions = `pidash reports on project and invoice tables.
Use project_dashboard, invoice_dashboard and crm_dashboard for figures,
retrieve_context to see the rows relevant to a question, and ask for a
model-written answer grounded in those rows. Past answers are listed under
the pidash://history resource.`

// shutdownTimeout bounds graceful shutdown of the HTTP transport.
const shutdownTimeout = 5 * time.Second

// Server exposes the dashboards and the assistant as MCP tools and resources.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// NewServer creates an MCP server with the given ports.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	version := ports.Version
	if version == "" {
		version = DefaultVersion
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(
			&mcp.Implementation{Name: "pidash", Version: version},
			&mcp.ServerOptions{Instructions: instructions},
		),
	}
	s.server.AddReceivingMiddleware(logRequests)

	s.registerTools()
	s.registerResources()

	return s, nil
}

// Run serves over stdio until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP transport, for mounting under
// another router.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)
}

// RunHTTP serves the streamable HTTP transport on addr until the context
// is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(sctx); err != nil {
			logger.Warn("mcp: shutdown: %v", err)
		}
	}()

	logger.Info("mcp: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// logRequests logs each incoming method with its duration. Failed tool
// calls are logged at warn level.
func logRequests(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		start := time.Now()
		res, err := next(ctx, method, req)
		elapsed := time.Since(start).Round(time.Millisecond)
		if err != nil {
			logger.Warn("mcp: %s failed after %s: %v", method, elapsed, err)
			return res, err
		}
		logger.Debug("mcp: %s %s", method, elapsed)
		return res, nil
	}
}
