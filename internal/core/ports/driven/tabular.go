package driven

import (
	"context"

	"github.com/custodia-labs/pidash/internal/core/domain"
)

// TabularSource is the store of record for the business tables.
//
// Implementations may include:
//   - SQLite warehouse tables
//   - Excel workbooks
//   - Google Sheets
//   - In-memory tables
type TabularSource interface {
	// FetchProjects returns a raw snapshot of the project table.
	// Header names are returned as stored; cleaning is the caller's job.
	FetchProjects(ctx context.Context) (*domain.Table, error)

	// FetchInvoices returns a raw snapshot of the invoice table.
	FetchInvoices(ctx context.Context) (*domain.Table, error)

	// AppendRow inserts a single row into the named table.
	// Columns the table does not yet have are added.
	AppendRow(ctx context.Context, table domain.TableName, row domain.Row) error

	// Name identifies the source in logs and snapshots.
	Name() string

	// Close releases resources.
	Close() error
}

// ColumnMetaSource is implemented by sources that carry a field glossary.
// Callers discover it with a type assertion on a TabularSource.
type ColumnMetaSource interface {
	// FetchColumnMeta returns the raw Table_name / Field_name / Description table.
	// Returns domain.ErrNotFound when the source has no glossary.
	FetchColumnMeta(ctx context.Context) (*domain.Table, error)
}

// KnowledgeSource provides domain-knowledge text chunks.
type KnowledgeSource interface {
	// Chunks returns the document's chunks in order.
	// An absent document yields an empty slice and no error.
	Chunks(ctx context.Context) ([]string, error)
}
