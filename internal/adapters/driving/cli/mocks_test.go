package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

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

type mockAssistantService struct {
	fragments []string
	streamErr error
	context   []domain.CorpusDocument
	history   []domain.AskRecord
	err       error

	lastReq      domain.AskRequest
	retrieved    bool
	historyLimit int
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
	m.retrieved = true
	return m.context, m.err
}

func (m *mockAssistantService) History(_ context.Context, limit int) ([]domain.AskRecord, error) {
	m.historyLimit = limit
	return m.history, m.err
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

type mockSettingsService struct {
	settings    domain.Settings
	err         error
	validateErr error
	llmErr      error

	source    *domain.SourceSettings
	provider  domain.AIProvider
	model     string
	apiKey    string
	knowledge *string
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(s *domain.Settings) error {
	m.settings = *s
	return m.err
}

func (m *mockSettingsService) SetSource(src domain.SourceSettings) error {
	m.source = &src
	return m.err
}

func (m *mockSettingsService) SetLLMProvider(p domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = p, model, apiKey
	return m.err
}

func (m *mockSettingsService) SetKnowledgeDocument(path string) error {
	m.knowledge = &path
	return m.err
}

func (m *mockSettingsService) Validate() error { return m.validateErr }

func (m *mockSettingsService) GetDefaults() domain.Settings { return domain.DefaultSettings() }

func (m *mockSettingsService) ValidateLLMConfig() error { return m.llmErr }

type testServices struct {
	dashboard *mockDashboardService
	assistant *mockAssistantService
	records   *mockRecordService
	settings  *mockSettingsService
}

// setupTestServices installs fresh mocks and returns them with a cleanup func.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		dashboard: &mockDashboardService{
			project: &domain.ProjectDashboard{
				Rows:            2,
				TotalValue:      1500,
				TotalBalance:    250,
				AverageProgress: 55,
				DistinctOrders:  2,
				StatusCounts:    []domain.Count{{Label: "Delayed", Count: 1}, {Label: "On track", Count: 1}},
				TopOrders: []domain.OrderSummary{
					{OrderKey: "1001", Project: "Alpha", Customer: "Acme", Value: 1000, Balance: 200},
				},
				ValueByCustomer: []domain.Amount{{Label: "Acme", Value: 1000}},
			},
			invoice: &domain.InvoiceDashboard{
				Rows:            3,
				MatchedRows:     2,
				TotalInvoiced:   750,
				CoveragePercent: 50,
				Monthly:         []domain.MonthlyInvoice{{Month: "2024-03", Planned: 500, Actual: 250}},
			},
			crm: &domain.CRMDashboard{
				UnpaidRows:  1,
				UnpaidTotal: 300,
				Overdue: []domain.AgingInvoice{{
					OrderKey:        "1001",
					Customer:        "Acme",
					Project:         "Alpha",
					InvoiceValue:    300,
					ExpectedPayment: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
					DaysLate:        10,
				}},
			},
		},
		assistant: &mockAssistantService{},
		records:   &mockRecordService{},
		settings:  &mockSettingsService{settings: domain.DefaultSettings()},
	}

	SetServices(Services{
		Dashboard: ts.dashboard,
		Assistant: ts.assistant,
		Records:   ts.records,
		Settings:  ts.settings,
	})

	return ts, func() {
		SetServices(Services{})
	}
}

// resetFlags restores every flag to its default so package-level flag
// variables do not leak between executions.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its combined output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}
