package driving

import (
	"context"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// RecordService appends new rows to the business tables.
type RecordService interface {
	// AddProject validates and appends a project row.
	AddProject(ctx context.Context, rec domain.ProjectRecord) error

	// AddInvoice validates and appends an invoice row.
	AddInvoice(ctx context.Context, rec domain.InvoiceRecord) error
}
