// Package web serves the dashboards, the append forms and the assistant
// over an HTTP JSON API.
package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/pidash/internal/core/ports/driving"
	"github.com/custodia-labs/pidash/internal/logger"
)

var (
	// ErrMissingDashboardService is returned when the dashboard service is not provided.
	ErrMissingDashboardService = errors.New("web: dashboard service is required")

	// ErrMissingAssistantService is returned when the assistant service is not provided.
	ErrMissingAssistantService = errors.New("web: assistant service is required")
)

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Dashboard driving.DashboardService
	Assistant driving.AssistantService

	// Records is optional. Without it the append endpoints are not registered.
	Records driving.RecordService

	// QuickPrompts are the suggested questions.
	QuickPrompts []string

	// MCP is optional. When set it is mounted at /mcp.
	MCP http.Handler
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Dashboard == nil {
		return ErrMissingDashboardService
	}
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	return nil
}

// Server is the pidash HTTP server.
type Server struct {
	ports  *Ports
	router *gin.Engine
}

// NewServer creates a web server and registers its routes.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	s := &Server{ports: ports, router: router}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/projects", s.handleProjects)
		api.GET("/invoices", s.handleInvoices)
		api.GET("/crm", s.handleCRM)

		api.POST("/ask", s.handleAsk)
		api.POST("/ask/context", s.handleAskContext)
		api.GET("/history", s.handleHistory)
		api.GET("/quick-prompts", s.handleQuickPrompts)

		if ports.Records != nil {
			api.POST("/records/project", s.handleAddProject)
			api.POST("/records/invoice", s.handleAddInvoice)
		}
	}

	if ports.MCP != nil {
		router.Any("/mcp", gin.WrapH(ports.MCP))
	}

	return s, nil
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves HTTP on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		httpServer.Shutdown(context.Background()) //nolint:errcheck
	}()

	logger.Info("web: listening on %s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("web: %s %s %d %s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), time.Since(start).Round(time.Millisecond))
	}
}
