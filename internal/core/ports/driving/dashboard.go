package driving

import (
	"context"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// DashboardService computes the report views over the business tables.
type DashboardService interface {
	// ProjectDashboard summarises projects matching the filter.
	// Returns domain.ErrNotFound when no project matches.
	ProjectDashboard(ctx context.Context, filter domain.ProjectFilter) (*domain.ProjectDashboard, error)

	// InvoiceDashboard summarises invoices joined to their projects.
	// Returns domain.ErrNotFound when no invoice matches.
	InvoiceDashboard(ctx context.Context, filter domain.InvoiceFilter) (*domain.InvoiceDashboard, error)

	// CRMDashboard lists unpaid invoices by distance from their expected payment date.
	CRMDashboard(ctx context.Context, filter domain.CRMFilter) (*domain.CRMDashboard, error)
}
