package web

import (
	"context"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

type mockAssistantService struct {
	fragments []string
	streamErr error
	context   []domain.CorpusDocument
	history   []domain.AskRecord
	err       error

	lastReq   domain.AskRequest
	lastLimit int
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
		Stream: func(yield func(string, error) bool) {
			for _, f := range m.fragments {
				if !yield(f, nil) {
					return
				}
			}
			if m.streamErr != nil {
				yield("", m.streamErr)
			}
		},
	}, nil
}

func (m *mockAssistantService) Retrieve(_ context.Context, req domain.AskRequest) ([]domain.CorpusDocument, error) {
	m.lastReq = req
	return m.context, m.err
}

func (m *mockAssistantService) History(_ context.Context, limit int) ([]domain.AskRecord, error) {
	m.lastLimit = limit
	return m.history, m.err
}

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

type mockRecordService struct {
	err     error
	project *domain.ProjectRecord
	invoice *domain.InvoiceRecord
}

func (m *mockRecordService) AddProject(_ context.Context, rec domain.ProjectRecord) error {
	m.project = &rec
	return m.err
}

func (m *mockRecordService) AddInvoice(_ context.Context, rec domain.InvoiceRecord) error {
	m.invoice = &rec
	return m.err
}
