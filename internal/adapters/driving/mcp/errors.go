// Package mcp provides an MCP (Model Context Protocol) server adapter for pidash.
// It lets AI assistants query the dashboards and ask questions over the
// business data.
package mcp

import "errors"

var (
	// ErrMissingAssistantService is returned when the assistant service is not provided.
	ErrMissingAssistantService = errors.New("mcp: assistant service is required")

	// ErrMissingDashboardService is returned when the dashboard service is not provided.
	ErrMissingDashboardService = errors.New("mcp: dashboard service is required")
)
