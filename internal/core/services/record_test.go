package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

func TestRecordService_AddProjectInvalidatesLoader(t *testing.T) {
	src := sampleSource()
	loader := NewLoader(src, nil, time.Hour)
	svc := NewRecordService(src, loader)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }

	before, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, before.Projects, 2)

	err = svc.AddProject(context.Background(), domain.ProjectRecord{
		Project:  "Gamma",
		OrderKey: "700",
		Year:     intp(2025),
		Status:   string(domain.ProjectStatusOnTrack),
		Progress: f64(0.1),
	})
	require.NoError(t, err)

	after, err := loader.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, after.Projects, 3)
	gamma := after.Projects[2]
	assert.Equal(t, "700", gamma.OrderKey)
	assert.Equal(t, 2025, *gamma.Year)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *gamma.CreatedAt)
}

func TestRecordService_AddInvoiceJoins(t *testing.T) {
	src := sampleSource()
	loader := NewLoader(src, nil, 0)
	svc := NewRecordService(src, loader)

	err := svc.AddInvoice(context.Background(), domain.InvoiceRecord{
		OrderKey:      "600",
		InvoiceValue:  f64(50000),
		PaymentStatus: string(domain.PaymentStatusInvoiced),
		PlanDate:      date(2025, time.March, 1),
	})
	require.NoError(t, err)

	snap, err := loader.Load(context.Background())
	require.NoError(t, err)
	joined := JoinInvoices(snap.Invoices, snap.Projects)
	last := joined[len(joined)-1]
	require.True(t, last.Matched())
	assert.Equal(t, "Beta Line", last.ProjectName)
	assert.Equal(t, date(2025, time.March, 1), last.Invoice.PlanDate)
}

func TestRecordService_ValidationFailureDoesNotAppend(t *testing.T) {
	src := sampleSource()
	svc := NewRecordService(src, nil)

	err := svc.AddProject(context.Background(), domain.ProjectRecord{OrderKey: "700"})
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	table, err := src.FetchProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
}

func TestRecordService_AppendFailure(t *testing.T) {
	svc := NewRecordService(failingSource{err: errBoom}, nil)

	err := svc.AddInvoice(context.Background(), domain.InvoiceRecord{OrderKey: "1"})

	require.ErrorIs(t, err, domain.ErrAppendFailure)
	assert.Contains(t, err.Error(), "boom")
}

func TestValidateProject(t *testing.T) {
	valid := domain.ProjectRecord{Project: "A", OrderKey: "1"}
	assert.NoError(t, ValidateProject(valid))

	tests := []struct {
		name   string
		mutate func(*domain.ProjectRecord)
		want   string
	}{
		{"missing name", func(r *domain.ProjectRecord) { r.Project = " " }, "project name"},
		{"missing order", func(r *domain.ProjectRecord) { r.OrderKey = "" }, "order number"},
		{"year low", func(r *domain.ProjectRecord) { r.Year = intp(1999) }, "project year"},
		{"year high", func(r *domain.ProjectRecord) { r.Year = intp(2101) }, "project year"},
		{"progress", func(r *domain.ProjectRecord) { r.Progress = f64(1.2) }, "progress"},
		{"status", func(r *domain.ProjectRecord) { r.Status = "Lost" }, "unknown status"},
		{"negative value", func(r *domain.ProjectRecord) { r.Value = f64(-1) }, "project value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := ValidateProject(r)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateInvoice(t *testing.T) {
	assert.NoError(t, ValidateInvoice(domain.InvoiceRecord{OrderKey: "1", PaymentStatus: "Paid"}))

	err := ValidateInvoice(domain.InvoiceRecord{PaymentStatus: "Maybe", InvoiceValue: f64(-5)})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "sale order number is required")
	assert.Contains(t, err.Error(), "unknown payment status")
	assert.Contains(t, err.Error(), "invoice value must not be negative")
}
