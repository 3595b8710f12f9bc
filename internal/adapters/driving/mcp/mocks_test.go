package mcp

import (
	"context"
	"iter"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// mockAssistantService is a mock implementation of driving.AssistantService.
type mockAssistantService struct {
	fragments []string
	streamErr error
	context   []domain.CorpusDocument
	history   []domain.AskRecord
	err       error

	lastReq domain.AskRequest
}

func (m *mockAssistantService) Ask(_ context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return &domain.AskResult{
		ID:       "ask-1",
		Question: req.Question,
		Context:  m.context,
		Model:    "test-model",
		Stream:   m.stream(),
	}, nil
}

func (m *mockAssistantService) stream() iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		for _, f := range m.fragments {
			if !yield(f, nil) {
				return
			}
		}
		if m.streamErr != nil {
			yield("", m.streamErr)
		}
	}
}

func (m *mockAssistantService) Retrieve(_ context.Context, req domain.AskRequest) ([]domain.CorpusDocument, error) {
	m.lastReq = req
	return m.context, m.err
}

func (m *mockAssistantService) History(_ context.Context, _ int) ([]domain.AskRecord, error) {
	return m.history, m.err
}

// mockDashboardService is a mock implementation of driving.DashboardService.
type mockDashboardService struct {
	project *domain.ProjectDashboard
	invoice *domain.InvoiceDashboard
	crm     *domain.CRMDashboard
	err     error

	projectFilter domain.ProjectFilter
	invoiceFilter domain.InvoiceFilter
	crmFilter     domain.CRMFilter
}

func (m *mockDashboardService) ProjectDashboard(
	_ context.Context,
	f domain.ProjectFilter,
) (*domain.ProjectDashboard, error) {
	m.projectFilter = f
	return m.project, m.err
}

func (m *mockDashboardService) InvoiceDashboard(
	_ context.Context,
	f domain.InvoiceFilter,
) (*domain.InvoiceDashboard, error) {
	m.invoiceFilter = f
	return m.invoice, m.err
}

func (m *mockDashboardService) CRMDashboard(_ context.Context, f domain.CRMFilter) (*domain.CRMDashboard, error) {
	m.crmFilter = f
	return m.crm, m.err
}

func newTestServer(t testing.TB, a *mockAssistantService, d *mockDashboardService) *Server {
	s, err := NewServer(&Ports{Assistant: a, Dashboard: d})
	require.NoError(t, err)
	return s
}
