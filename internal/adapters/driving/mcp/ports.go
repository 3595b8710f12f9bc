package mcp

import (
	"github.com/custodia-labs/pidash/internal/core/ports/driving"
)

// Ports holds what the MCP server drives.
type Ports struct {
	// Assistant answers questions over the business data.
	Assistant driving.AssistantService

	// Dashboard computes the report views.
	Dashboard driving.DashboardService

	// QuickPrompts are the suggested questions. Empty uses domain.QuickPrompts.
	QuickPrompts []string

	// Version is reported to clients. Empty reports DefaultVersion.
	Version string
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Assistant == nil {
		return ErrMissingAssistantService
	}
	if p.Dashboard == nil {
		return ErrMissingDashboardService
	}
	return nil
}
