package services

import (
	"context"
	"errors"
	"iter"
	"time"

	"github.com/custodia-labs/pidash/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/pidash/internal/core/domain"
	"github.com/custodia-labs/pidash/internal/core/ports/driven"
)

func f64(v float64) *float64 { return &v }

func intp(v int) *int { return &v }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// sampleSource returns a memory source with two projects and three invoices.
func sampleSource() *memory.Source {
	src := memory.NewSource()
	src.SetTable(domain.TableProject, &domain.Table{
		Columns: []string{"Project", "Customer", "Project Engineer", "Project year", "Order number",
			"Product", "Q'ty", "Project Value", "Balance", "Status", "Progress", "Project Phrase"},
		Rows: [][]any{
			{"Alpha Plant", "Acme", "Somchai", 2024.0, 500.0, "Control Panel", "2", "1,000,000", 250000.0, "Delayed", 0.42, "Fabrication"},
			{"Beta Line", "Other", "Niran", "2025", "600", "Heater", 1.0, 500000.0, 0.0, "On track", 1.5, "Shipping"},
			{nil, "", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil},
		},
	})
	src.SetTable(domain.TableInvoice, &domain.Table{
		Columns: []string{"Project year", "Project Engineer", "Sale order No.", "Customer", "Invoice value",
			"Invoice plan date", "Issued Date", "Payment Status", "Currency unit ", "Expected Payment date",
			"Actual Payment received date"},
		Rows: [][]any{
			{2024.0, "", "500", "", 300000.0, "2024-03-01", "2024-03-05", "Overdue", "THB", "2024-04-01", nil},
			{2024.0, "Somchai", 500.0, "Acme Direct", 200000.0, "2024-04-01", nil, "Paid", "THB", "2024-05-01", "2024-05-04"},
			{2025.0, "Ploy", "999", "Zeta", 100000.0, "2025-01-10", nil, "Planned", "USD", "2025-02-01", nil},
		},
	})
	return src
}

type stubLLM struct {
	fragments []string
	streamErr error
	midErr    error
	prompt    domain.Prompt
	calls     int
}

var _ driven.LLMService = (*stubLLM)(nil)

func (s *stubLLM) Stream(_ context.Context, p domain.Prompt, _ driven.ChatOptions) (iter.Seq2[string, error], error) {
	s.calls++
	s.prompt = p
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	return func(yield func(string, error) bool) {
		for _, f := range s.fragments {
			if !yield(f, nil) {
				return
			}
		}
		if s.midErr != nil {
			yield("", s.midErr)
		}
	}, nil
}

func (s *stubLLM) ModelName() string            { return "stub" }
func (s *stubLLM) Ping(_ context.Context) error { return nil }
func (s *stubLLM) Close() error                 { return nil }

type stubKnowledge struct {
	chunks []string
	err    error
}

func (s stubKnowledge) Chunks(_ context.Context) ([]string, error) {
	return s.chunks, s.err
}

type stubPrompts map[string]string

func (p stubPrompts) Load(name string) (string, error) {
	if v, ok := p[name]; ok {
		return v, nil
	}
	return "", domain.ErrNotFound
}

func (p stubPrompts) Reload() {}

// failingSource fails every call.
type failingSource struct{ err error }

func (s failingSource) FetchProjects(context.Context) (*domain.Table, error) { return nil, s.err }
func (s failingSource) FetchInvoices(context.Context) (*domain.Table, error) { return nil, s.err }
func (s failingSource) AppendRow(context.Context, domain.TableName, domain.Row) error {
	return s.err
}
func (s failingSource) Name() string { return "failing" }
func (s failingSource) Close() error { return nil }

var errBoom = errors.New("boom")
