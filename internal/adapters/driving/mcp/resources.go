package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

const (
	uriScheme = "pidash://"

	// historyLimit bounds how far back the history resources look.
	historyLimit = 100
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "quick-prompts",
		Name:        "quick-prompts",
		Description: "Suggested questions for the ask tool",
		MIMEType:    "application/json",
	}, s.handleQuickPromptsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "history",
		Name:        "history",
		Description: "Recently answered questions, newest first",
		MIMEType:    "application/json",
	}, s.handleHistoryResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "history/{askId}",
		Name:        "history-answer",
		Description: "Answer text of a previous question",
		MIMEType:    "text/markdown",
	}, s.handleAnswerResource)
}

func (s *Server) handleQuickPromptsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	prompts := s.ports.QuickPrompts
	if len(prompts) == 0 {
		prompts = domain.QuickPrompts
	}
	return jsonResource(req.Params.URI, prompts)
}

func (s *Server) handleHistoryResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	records, err := s.ports.Assistant.History(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}

	type askInfo struct {
		ID        string `json:"id"`
		Question  string `json:"question"`
		Domain    string `json:"domain"`
		Model     string `json:"model"`
		CreatedAt string `json:"created_at"`
		URI       string `json:"uri"`
	}

	infos := make([]askInfo, len(records))
	for i := range records {
		infos[i] = askInfo{
			ID:        records[i].ID,
			Question:  records[i].Question,
			Domain:    string(records[i].Domain),
			Model:     records[i].Model,
			CreatedAt: records[i].CreatedAt.Format(time.RFC3339),
			URI:       uriScheme + "history/" + records[i].ID,
		}
	}
	return jsonResource(req.Params.URI, infos)
}

func (s *Server) handleAnswerResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractAskID(req.Params.URI)
	if id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	records, err := s.ports.Assistant.History(ctx, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("listing history: %w", err)
	}
	for i := range records {
		if records[i].ID != id {
			continue
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "text/markdown",
				Text:     records[i].Answer,
			}},
		}, nil
	}
	return nil, mcp.ResourceNotFoundError(req.Params.URI)
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractAskID extracts the ask ID from a URI like pidash://history/{askId}.
func extractAskID(uri string) string {
	const prefix = uriScheme + "history/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	return strings.TrimPrefix(uri, prefix)
}
