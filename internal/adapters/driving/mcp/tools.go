package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/services"
)

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question         string `json:"question" jsonschema:"the question about projects or invoices"`
	Domain           string `json:"domain,omitempty" jsonschema:"project, invoice or both (default both)"`
	TopK             int    `json:"top_k,omitempty" jsonschema:"number of context snippets to use (default 8)"`
	IncludeKnowledge bool   `json:"include_knowledge,omitempty" jsonschema:"add chunks of the domain-knowledge document"`
	IncludeWorkflow  *bool  `json:"include_workflow,omitempty" jsonschema:"add the project workflow description (default true)"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string                  `json:"answer"`
	Model   string                  `json:"model"`
	Context []domain.CorpusDocument `json:"context"`
}

// ContextOutput is the output schema for the retrieve_context tool.
type ContextOutput struct {
	Context []domain.CorpusDocument `json:"context"`
	Count   int                     `json:"count"`
}

// ProjectDashboardInput is the input schema for the project_dashboard tool.
type ProjectDashboardInput struct {
	Engineers []string `json:"engineers,omitempty" jsonschema:"only these engineers"`
	Projects  []string `json:"projects,omitempty" jsonschema:"only these projects"`
	Years     []int    `json:"years,omitempty" jsonschema:"only these years"`
	Statuses  []string `json:"statuses,omitempty" jsonschema:"only these project statuses"`
	Phrases   []string `json:"phrases,omitempty" jsonschema:"only these project phrases"`
	Customers []string `json:"customers,omitempty" jsonschema:"only these customers"`
}

// InvoiceDashboardInput is the input schema for the invoice_dashboard tool.
type InvoiceDashboardInput struct {
	Engineers       []string `json:"engineers,omitempty" jsonschema:"only these engineers"`
	Projects        []string `json:"projects,omitempty" jsonschema:"only these projects"`
	Customers       []string `json:"customers,omitempty" jsonschema:"only these customers"`
	Years           []int    `json:"years,omitempty" jsonschema:"only these years"`
	PaymentStatuses []string `json:"payment_statuses,omitempty" jsonschema:"only these payment statuses"`
}

// CRMDashboardInput is the input schema for the crm_dashboard tool.
type CRMDashboardInput struct {
	PaymentStatuses []string `json:"payment_statuses,omitempty" jsonschema:"only these payment statuses"`
	Customers       []string `json:"customers,omitempty" jsonschema:"only these customers"`
}

// AgingOutput is an unpaid invoice in the crm_dashboard output.
type AgingOutput struct {
	OrderKey        string  `json:"order"`
	Customer        string  `json:"customer"`
	Engineer        string  `json:"engineer"`
	Project         string  `json:"project"`
	InvoiceValue    float64 `json:"invoice_value"`
	ExpectedPayment string  `json:"expected_payment"`
	DaysLate        int     `json:"days_late"`
}

// CRMDashboardOutput is the output schema for the crm_dashboard tool.
// Dates are rendered as YYYY-MM-DD.
type CRMDashboardOutput struct {
	Rows            int                     `json:"rows"`
	AgingTotal      float64                 `json:"aging_total"`
	UnpaidRows      int                     `json:"unpaid_rows"`
	UnpaidTotal     float64                 `json:"unpaid_total"`
	OverdueTotal    float64                 `json:"overdue_total"`
	UnpaidCustomers int                     `json:"unpaid_customers"`
	Overdue         []AgingOutput           `json:"overdue"`
	Upcoming        []AgingOutput           `json:"upcoming"`
	FastestPayers   []domain.PayerBehaviour `json:"fastest_payers"`
	SlowestPayers   []domain.PayerBehaviour `json:"slowest_payers"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask",
		Description: "Answer a question using the project and invoice records as context",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "retrieve_context",
		Description: "Return the records most relevant to a question without calling the model",
	}, s.handleRetrieve)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "project_dashboard",
		Description: "Summarise projects: totals, statuses, top orders and value by engineer or customer",
	}, s.handleProjectDashboard)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "invoice_dashboard",
		Description: "Summarise invoices joined to projects: coverage, payment status and monthly plan vs actual",
	}, s.handleInvoiceDashboard)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "crm_dashboard",
		Description: "List unpaid invoices by days overdue or until due, with payer behaviour",
	}, s.handleCRMDashboard)
}

func askRequest(input AskInput) (domain.AskRequest, error) {
	d := domain.CorpusDomain(input.Domain)
	if d == "" {
		d = domain.CorpusDomainBoth
	}
	if !d.IsValid() {
		return domain.AskRequest{}, fmt.Errorf("%w: unknown domain %q", domain.ErrInvalidInput, input.Domain)
	}
	return domain.AskRequest{
		Question:         input.Question,
		Domain:           d,
		TopK:             input.TopK,
		IncludeKnowledge: input.IncludeKnowledge,
		IncludeWorkflow:  input.IncludeWorkflow == nil || *input.IncludeWorkflow,
	}, nil
}

// handleAsk runs the question through the model and returns the full answer.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	req, err := askRequest(input)
	if err != nil {
		return nil, AskOutput{}, err
	}

	result, err := s.ports.Assistant.Ask(ctx, req)
	if err != nil {
		return nil, AskOutput{}, err
	}

	answer, err := services.CollectAnswer(result)
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		Answer:  answer,
		Model:   result.Model,
		Context: result.Context,
	}, nil
}

func (s *Server) handleRetrieve(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, ContextOutput, error) {
	req, err := askRequest(input)
	if err != nil {
		return nil, ContextOutput{}, err
	}

	docs, err := s.ports.Assistant.Retrieve(ctx, req)
	if err != nil {
		return nil, ContextOutput{}, err
	}
	if docs == nil {
		docs = []domain.CorpusDocument{}
	}
	return nil, ContextOutput{Context: docs, Count: len(docs)}, nil
}

func (s *Server) handleProjectDashboard(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProjectDashboardInput,
) (*mcp.CallToolResult, domain.ProjectDashboard, error) {
	dash, err := s.ports.Dashboard.ProjectDashboard(ctx, domain.ProjectFilter(input))
	if err != nil {
		return nil, domain.ProjectDashboard{}, err
	}
	return nil, *dash, nil
}

func (s *Server) handleInvoiceDashboard(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input InvoiceDashboardInput,
) (*mcp.CallToolResult, domain.InvoiceDashboard, error) {
	dash, err := s.ports.Dashboard.InvoiceDashboard(ctx, domain.InvoiceFilter(input))
	if err != nil {
		return nil, domain.InvoiceDashboard{}, err
	}
	return nil, *dash, nil
}

func (s *Server) handleCRMDashboard(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CRMDashboardInput,
) (*mcp.CallToolResult, CRMDashboardOutput, error) {
	filter := domain.CRMFilter{
		PaymentStatuses: input.PaymentStatuses,
		Customers:       input.Customers,
	}
	dash, err := s.ports.Dashboard.CRMDashboard(ctx, filter)
	if err != nil {
		return nil, CRMDashboardOutput{}, err
	}
	return nil, CRMDashboardOutput{
		Rows:            dash.Rows,
		AgingTotal:      dash.AgingTotal,
		UnpaidRows:      dash.UnpaidRows,
		UnpaidTotal:     dash.UnpaidTotal,
		OverdueTotal:    dash.OverdueTotal,
		UnpaidCustomers: dash.UnpaidCustomers,
		Overdue:         agingOutputs(dash.Overdue),
		Upcoming:        agingOutputs(dash.Upcoming),
		FastestPayers:   dash.FastestPayers,
		SlowestPayers:   dash.SlowestPayers,
	}, nil
}

func agingOutputs(in []domain.AgingInvoice) []AgingOutput {
	out := make([]AgingOutput, len(in))
	for i, inv := range in {
		out[i] = AgingOutput{
			OrderKey:        inv.OrderKey,
			Customer:        inv.Customer,
			Engineer:        inv.Engineer,
			Project:         inv.Project,
			InvoiceValue:    inv.InvoiceValue,
			ExpectedPayment: inv.ExpectedPayment.Format(time.DateOnly),
			DaysLate:        inv.DaysLate,
		}
	}
	return out
}
